// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested session does not exist or has expired.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates a malformed or incomplete request.
var ErrValidation = errors.New("validation")

// ErrForbidden indicates the session belongs to a different user.
var ErrForbidden = errors.New("forbidden")

// ErrRateLimited indicates the request exceeded the per-conversation rate limit.
var ErrRateLimited = errors.New("rate limited")
