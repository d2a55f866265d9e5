package explore

import "errors"

var (
	// ErrRateLimited is returned when an upstream signals throttling
	// (HTTP 429). Callers surface it separately so the UI can stay
	// quiet instead of toasting on every keystroke.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrUpstream covers every other upstream failure: non-success
	// status, transport error, or malformed payload.
	ErrUpstream = errors.New("upstream request failed")
)
