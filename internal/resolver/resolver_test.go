package resolver

import (
	"context"
	"errors"
	"testing"
)

// fakeProber returns a canned result or error and records invocations.
type fakeProber struct {
	result *ProbeResult
	err    error
	calls  int
}

func (f *fakeProber) Probe(ctx context.Context, sourceURL string) (*ProbeResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func hls(url string, height int, bitrate float64, codec string) StreamCandidate {
	return StreamCandidate{URL: url, Height: height, Bitrate: bitrate, VideoCodec: codec, Protocol: "m3u8_native"}
}

func TestResolve_empty_source(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{}}
	svc := NewService(fake)

	for _, src := range []string{"", "   ", "\t\n"} {
		_, err := svc.Resolve(context.Background(), src, Constraint{})
		if !errors.Is(err, ErrEmptySource) {
			t.Errorf("source %q: expected ErrEmptySource, got %v", src, err)
		}
	}
	if fake.calls != 0 {
		t.Errorf("prober should not run for empty source, ran %d times", fake.calls)
	}
}

func TestResolve_probe_error_propagates(t *testing.T) {
	fake := &fakeProber{err: ErrProbeFailed}
	svc := NewService(fake)

	_, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
	if !errors.Is(err, ErrProbeFailed) {
		t.Errorf("expected ErrProbeFailed, got %v", err)
	}
}

func TestResolve_no_streaming_format(t *testing.T) {
	// Only progressive formats, no fallback manifest.
	fake := &fakeProber{result: &ProbeResult{
		Formats: []StreamCandidate{
			{URL: "https://cdn/video.mp4", Height: 720, Ext: "mp4", Protocol: "https"},
			{URL: "https://cdn/video.webm", Height: 1080, Ext: "webm", Protocol: "https"},
		},
	}}
	svc := NewService(fake)

	_, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
	if !errors.Is(err, ErrNoStreamingFormat) {
		t.Errorf("expected ErrNoStreamingFormat, got %v", err)
	}
}

func TestResolve_heuristic_detection(t *testing.T) {
	// Any one of extension, protocol hint, or URL suffix qualifies a candidate.
	cases := []struct {
		name string
		cand StreamCandidate
	}{
		{"extension", StreamCandidate{URL: "https://cdn/stream", Ext: "m3u8"}},
		{"protocol", StreamCandidate{URL: "https://cdn/stream", Protocol: "m3u8_native"}},
		{"url_suffix", StreamCandidate{URL: "https://cdn/master.M3U8?sig=abc", Ext: "mp4", Protocol: "https"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeProber{result: &ProbeResult{Formats: []StreamCandidate{tc.cand}}}
			svc := NewService(fake)
			got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tc.cand.URL {
				t.Errorf("got %q, want %q", got, tc.cand.URL)
			}
		})
	}
}

func TestResolve_single_candidate_meets_floor(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{
		Formats: []StreamCandidate{hls("https://cdn/720.m3u8", 720, 1200, "avc1.4d401f")},
	}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{MinHeight: 480})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/720.m3u8" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_single_candidate_fails_floor_degrades(t *testing.T) {
	// The floor is degraded rather than failing when nothing meets it.
	fake := &fakeProber{result: &ProbeResult{
		Formats: []StreamCandidate{hls("https://cdn/360.m3u8", 360, 500, "avc1.4d401f")},
	}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{MinHeight: 4000})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/360.m3u8" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_codec_bonus_dominates(t *testing.T) {
	// A 480p H.264 stream outranks a 1080p VP9 stream.
	fake := &fakeProber{result: &ProbeResult{
		Formats: []StreamCandidate{
			hls("https://cdn/1080-vp9.m3u8", 1080, 6000, "vp09.00.50.08"),
			hls("https://cdn/480-h264.m3u8", 480, 900, "avc1.4d401f"),
		},
	}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/480-h264.m3u8" {
		t.Errorf("codec bonus should win: got %q", got)
	}
}

func ladderProbe() *ProbeResult {
	return &ProbeResult{Formats: []StreamCandidate{
		hls("https://cdn/360.m3u8", 360, 600, "avc1.4d401e"),
		hls("https://cdn/480.m3u8", 480, 1000, "avc1.4d401f"),
		hls("https://cdn/720.m3u8", 720, 2500, "avc1.4d4020"),
		hls("https://cdn/1080.m3u8", 1080, 4500, "avc1.640028"),
	}}
}

func TestResolve_target_height_exact(t *testing.T) {
	svc := NewService(&fakeProber{result: ladderProbe()})

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{TargetHeight: 720})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/720.m3u8" {
		t.Errorf("target 720 should pick 720, got %q", got)
	}
}

func TestResolve_target_height_between_rungs(t *testing.T) {
	// Nothing at 500; the best at-or-under wins, not the next rung up.
	svc := NewService(&fakeProber{result: ladderProbe()})

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{TargetHeight: 500})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/480.m3u8" {
		t.Errorf("target 500 should pick 480, got %q", got)
	}
}

func TestResolve_target_below_all_heights(t *testing.T) {
	// All candidates exceed the target; the best above it is returned rather
	// than failing.
	fake := &fakeProber{result: &ProbeResult{Formats: []StreamCandidate{
		hls("https://cdn/720.m3u8", 720, 2500, "avc1.4d4020"),
		hls("https://cdn/1080.m3u8", 1080, 4500, "avc1.640028"),
	}}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{TargetHeight: 144})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/1080.m3u8" {
		t.Errorf("expected best above target, got %q", got)
	}
}

func TestResolve_min_height_filters(t *testing.T) {
	svc := NewService(&fakeProber{result: ladderProbe()})

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{MinHeight: 600})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/1080.m3u8" {
		t.Errorf("min 600 should pick best of {720,1080}, got %q", got)
	}
}

func TestResolve_deterministic(t *testing.T) {
	svc := NewService(&fakeProber{result: ladderProbe()})

	first, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{TargetHeight: 720})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 25; i++ {
		got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{TargetHeight: 720})
		if err != nil {
			t.Fatalf("Resolve #%d: %v", i, err)
		}
		if got != first {
			t.Fatalf("Resolve #%d: got %q, first call gave %q", i, got, first)
		}
	}
}

func TestResolve_tie_keeps_first_discovered(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{Formats: []StreamCandidate{
		hls("https://cdn/a.m3u8", 720, 2000, "avc1.4d4020"),
		hls("https://cdn/b.m3u8", 720, 2000, "avc1.4d4020"),
	}}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/a.m3u8" {
		t.Errorf("tie should keep first-discovered, got %q", got)
	}
}

func TestResolve_entries_flattened(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{
		Formats: []StreamCandidate{
			{URL: "https://cdn/video.mp4", Height: 480, Ext: "mp4", Protocol: "https"},
		},
		Entries: []ProbeEntry{
			{Formats: []StreamCandidate{hls("https://cdn/entry-720.m3u8", 720, 2500, "avc1.4d4020")}},
		},
	}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/entry-720.m3u8" {
		t.Errorf("entry formats should be candidates, got %q", got)
	}
}

func TestResolve_fallback_manifest_top_level(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{
		ManifestURL: "https://cdn/live/master.m3u8",
	}}
	svc := NewService(fake)

	// Constraint is irrelevant: the fallback bypasses scoring entirely.
	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{TargetHeight: 9999, MinHeight: 9999})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/live/master.m3u8" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_fallback_manifest_from_entry(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{
		Entries: []ProbeEntry{
			{},
			{ManifestURL: "https://cdn/entry/master.m3u8"},
		},
	}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "https://example.com/live", Constraint{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/entry/master.m3u8" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_source_trimmed(t *testing.T) {
	fake := &fakeProber{result: &ProbeResult{
		Formats: []StreamCandidate{hls("https://cdn/720.m3u8", 720, 2500, "avc1.4d4020")},
	}}
	svc := NewService(fake)

	got, err := svc.Resolve(context.Background(), "  https://example.com/live  ", Constraint{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://cdn/720.m3u8" {
		t.Errorf("got %q", got)
	}
}
