package resolver

// StreamCandidate is one stream variant reported by the prober.
// Field tags match yt-dlp's JSON dump; zero values mean "unknown".
type StreamCandidate struct {
	URL        string  `json:"url"`
	Height     int     `json:"height"`
	Bitrate    float64 `json:"tbr"`
	VideoCodec string  `json:"vcodec"`
	Ext        string  `json:"ext"`
	Protocol   string  `json:"protocol"`
}

// ProbeEntry is one sub-stream of a multi-stream source (yt-dlp "entries").
type ProbeEntry struct {
	Formats     []StreamCandidate `json:"formats"`
	ManifestURL string            `json:"manifest_url"`
}

// ProbeResult is the prober's structured output for one source. Any of the
// three fields may be empty depending on the source type.
type ProbeResult struct {
	Formats     []StreamCandidate `json:"formats"`
	Entries     []ProbeEntry      `json:"entries"`
	ManifestURL string            `json:"manifest_url"`
}

// Constraint holds the per-request resolution preferences.
// TargetHeight is used only when positive; MinHeight defaults to 0.
type Constraint struct {
	TargetHeight int
	MinHeight    int
}
