// package tasks implements the sync workflows: resolving input records to
// catalog releases, reconciling them against the remote wantlist and
// collection, and aggregating marketplace listings.
//
// Every workflow runs through a [SyncEngine], which owns the [services.Catalog]
// adapter and produces a [models.SyncReport] describing each decision it made.
package tasks
