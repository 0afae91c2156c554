package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing TVDB API key")

	// Lookup & persistence errors
	ErrNotFound      = fmt.Errorf("not found")
	ErrAlreadyExists = fmt.Errorf("already exists")
	ErrDuplicateKey  = fmt.Errorf("duplicate key")
	ErrStorage       = fmt.Errorf("storage failure")

	// Authentication errors
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrSessionNotFound    = fmt.Errorf("session not found")

	// Metadata provider errors
	ErrUpstream = fmt.Errorf("metadata provider request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
