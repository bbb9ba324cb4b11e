package domain

import "errors"

var (
	ErrMissingIdentifier    = errors.New("missing identifier")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrCredentials          = errors.New("credentials unavailable")
	ErrMalformedCredentials = errors.New("malformed credential payload")
	ErrUpstream             = errors.New("upstream call failed")
	ErrNoData               = errors.New("no data available for window")
)
