package resolver

import "errors"

var (
	// ErrEmptySource is returned when the source URL is empty after trimming.
	ErrEmptySource = errors.New("missing source url")

	// ErrProbeFailed is returned when the prober exits non-zero or produces
	// output that cannot be decoded.
	ErrProbeFailed = errors.New("probe failed")

	// ErrProbeTimeout is returned when the prober does not complete within
	// the configured deadline. The subprocess is killed.
	ErrProbeTimeout = errors.New("probe timed out")

	// ErrNoStreamingFormat is returned when the probe succeeded but exposed
	// neither an m3u8-style candidate nor a fallback manifest URL.
	ErrNoStreamingFormat = errors.New("no hls stream found")
)
