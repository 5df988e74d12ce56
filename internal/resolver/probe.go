package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Prober turns a source URL into structured stream metadata.
// Implementations must honor ctx cancellation.
type Prober interface {
	Probe(ctx context.Context, sourceURL string) (*ProbeResult, error)
}

// DefaultProbeTimeout bounds a single prober invocation when no explicit
// timeout is configured.
const DefaultProbeTimeout = 60 * time.Second

// YtDlp is a Prober that shells out to the yt-dlp binary and decodes its
// single-JSON dump. The option set is fixed: no interactive warnings, no
// certificate validation, free container formats preferred, "best" default.
type YtDlp struct {
	// Path is the yt-dlp binary; "yt-dlp" (resolved via PATH) when empty.
	Path string

	// Timeout caps one invocation; DefaultProbeTimeout when zero.
	// The subprocess is killed on expiry.
	Timeout time.Duration
}

// NewYtDlp returns a YtDlp prober for the given binary path and timeout.
// Zero values select the defaults.
func NewYtDlp(path string, timeout time.Duration) *YtDlp {
	return &YtDlp{Path: path, Timeout: timeout}
}

// Probe implements Prober by running yt-dlp and decoding its JSON output.
func (y *YtDlp) Probe(ctx context.Context, sourceURL string) (*ProbeResult, error) {
	timeout := y.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := y.Path
	if path == "" {
		path = "yt-dlp"
	}

	cmd := exec.CommandContext(ctx, path, y.args(sourceURL)...)
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrProbeTimeout, timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrProbeFailed, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	return decodeProbeOutput(out)
}

// args builds the fixed yt-dlp argument list for one source URL.
func (y *YtDlp) args(sourceURL string) []string {
	return []string{
		"--dump-single-json",
		"--no-warnings",
		"--no-check-certificates",
		"--prefer-free-formats",
		"-f", "best",
		sourceURL,
	}
}

// decodeProbeOutput parses a yt-dlp JSON dump into a ProbeResult.
// Malformed output is a probe failure, not a decode-layer error.
func decodeProbeOutput(out []byte) (*ProbeResult, error) {
	var res ProbeResult
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("%w: unusable output: %v", ErrProbeFailed, err)
	}
	return &res, nil
}
