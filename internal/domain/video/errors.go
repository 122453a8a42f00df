package video

import "errors"

var (
	// ErrInvalidInput is returned for unusable caller input, e.g. a blank topic.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoCredentials means the catalog client is not configured with an API key.
	ErrNoCredentials = errors.New("video catalog credentials not configured")
	// ErrUpstreamUnavailable covers transport, auth, quota and timeout failures of the catalog.
	ErrUpstreamUnavailable = errors.New("video catalog unavailable")
)
