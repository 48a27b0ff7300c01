package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and resolution errors
	ErrNetwork      = fmt.Errorf("network request failed")
	ErrRateLimited  = fmt.Errorf("rate limit exceeded")
	ErrNoMatch      = fmt.Errorf("no match found")
	ErrUnresolvable = fmt.Errorf("could not resolve release")

	// Operation errors
	ErrSync  = fmt.Errorf("sync operation failed")
	ErrParse = fmt.Errorf("input parsing failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
