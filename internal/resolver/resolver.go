package resolver

import (
	"context"
	"regexp"
	"strings"
)

// hlsTag is the manifest-format marker used by the candidate filter.
const hlsTag = "m3u8"

// codecBonus is added to a candidate's score when its video codec matches
// tvCodecPattern. It exceeds any realistic height*10+bitrate spread, so
// codec compatibility always beats raw quality.
const codecBonus = 10000

// tvCodecPattern matches the widely-TV-compatible H.264 codec tags.
var tvCodecPattern = regexp.MustCompile(`(?i)avc1|h264`)

// Service resolves a playable HLS URL for a live source by probing it and
// ranking the reported stream variants.
type Service struct {
	prober Prober
}

// NewService returns a Service backed by the given Prober.
func NewService(p Prober) *Service {
	return &Service{prober: p}
}

// Resolve probes sourceURL and returns the single best HLS URL under the
// given constraint. The probe runs once per call; there is no cache and no
// retry. Errors are ErrEmptySource, ErrProbeFailed, ErrProbeTimeout, or
// ErrNoStreamingFormat.
func (s *Service) Resolve(ctx context.Context, sourceURL string, c Constraint) (string, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return "", ErrEmptySource
	}

	probe, err := s.prober.Probe(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	candidates := flattenCandidates(probe)
	qualifying := filterHLS(candidates)

	if len(qualifying) == 0 {
		// A live endpoint often exposes a single manifest URL instead of a
		// format list; return it unscored.
		if u := fallbackManifest(probe); u != "" {
			return u, nil
		}
		return "", ErrNoStreamingFormat
	}

	return selectURL(qualifying, c), nil
}

// flattenCandidates collects every format on the probe result, top-level
// first, then each entry's formats in entry order. No dedup by URL.
func flattenCandidates(probe *ProbeResult) []StreamCandidate {
	out := make([]StreamCandidate, 0, len(probe.Formats))
	out = append(out, probe.Formats...)
	for _, entry := range probe.Entries {
		out = append(out, entry.Formats...)
	}
	return out
}

// filterHLS keeps only manifest-style candidates. The triple check is
// deliberately loose: upstream metadata is inconsistently populated, so any
// of extension, protocol hint, or the URL itself may carry the marker.
func filterHLS(candidates []StreamCandidate) []StreamCandidate {
	out := make([]StreamCandidate, 0, len(candidates))
	for _, c := range candidates {
		if isHLS(c) {
			out = append(out, c)
		}
	}
	return out
}

func isHLS(c StreamCandidate) bool {
	return c.Ext == hlsTag ||
		strings.Contains(c.Protocol, hlsTag) ||
		strings.Contains(strings.ToLower(c.URL), "."+hlsTag)
}

// fallbackManifest returns the probe's direct manifest URL: top-level first,
// then the first entry that carries one. Empty when none exists.
func fallbackManifest(probe *ProbeResult) string {
	if probe.ManifestURL != "" {
		return probe.ManifestURL
	}
	for _, entry := range probe.Entries {
		if entry.ManifestURL != "" {
			return entry.ManifestURL
		}
	}
	return ""
}

// score ranks a candidate by height and bitrate, with codecBonus for
// TV-compatible codecs.
func score(c StreamCandidate) float64 {
	s := float64(c.Height)*10 + c.Bitrate
	if tvCodecPattern.MatchString(c.VideoCodec) {
		s += codecBonus
	}
	return s
}

// selectURL applies the height constraint and picks one URL from a non-empty
// qualifying set.
//
// The floor is TargetHeight when set, else MinHeight. With a target, the
// best candidate at or under the target wins; only when nothing sits at or
// under it does the floor-constrained set ("best available above target")
// apply. Without a target, the floor-constrained set wins, degrading to the
// full set rather than failing when nothing meets the floor.
func selectURL(qualifying []StreamCandidate, c Constraint) string {
	floor := c.MinHeight
	if c.TargetHeight > 0 {
		floor = c.TargetHeight
	}
	if floor < 0 {
		floor = 0
	}

	constrained := make([]StreamCandidate, 0, len(qualifying))
	for _, cand := range qualifying {
		if cand.Height >= floor {
			constrained = append(constrained, cand)
		}
	}

	if c.TargetHeight > 0 {
		atOrUnder := make([]StreamCandidate, 0, len(qualifying))
		for _, cand := range qualifying {
			if cand.Height <= c.TargetHeight {
				atOrUnder = append(atOrUnder, cand)
			}
		}
		if len(atOrUnder) > 0 {
			return bestOf(atOrUnder).URL
		}
		if len(constrained) > 0 {
			return bestOf(constrained).URL
		}
		return bestOf(qualifying).URL
	}

	if len(constrained) > 0 {
		return bestOf(constrained).URL
	}
	return bestOf(qualifying).URL
}

// bestOf returns the highest-scoring candidate; ties keep the
// first-discovered one, so repeated calls over identical probe output are
// deterministic. candidates must be non-empty.
func bestOf(candidates []StreamCandidate) StreamCandidate {
	best := candidates[0]
	bestScore := score(best)
	for _, cand := range candidates[1:] {
		if s := score(cand); s > bestScore {
			best = cand
			bestScore = s
		}
	}
	return best
}
