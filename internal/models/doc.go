// Package models contains the shared domain types passed between the
// resolver, the sync engine, the marketplace aggregator and the CLI layer.
//
// All values are created fresh per command invocation; the only persisted
// state lives in the repositories cache and on Discogs itself.
package models
