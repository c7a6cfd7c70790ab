package api

import "errors"

// ErrFetchFailed indicates a transient connectivity failure during status retrieval
var ErrFetchFailed = errors.New("fetch failed")

// ErrNotReady indicates that no status data is available yet
var ErrNotReady = errors.New("not ready")

// ErrMissingCredentials indicates that username or password are not configured
var ErrMissingCredentials = errors.New("missing credentials")
