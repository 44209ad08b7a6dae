package pg

import "errors"

// Stable error values for errors.Is checks at the call sites.
var (
	ErrEmptyConnectionURL = errors.New("empty postgres connection URL")
	ErrFailedToParseURL   = errors.New("failed to parse postgres connection URL")
	ErrNotReady           = errors.New("postgres did not become ready within the given time period")
	ErrHealthcheckFailed  = errors.New("postgres healthcheck failed")
)
