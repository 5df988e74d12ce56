package resolver

import (
	"fmt"
	"strings"
)

// PlaylistEntry describes the single channel rendered into an M3U playlist.
// Empty attribute values are omitted from the #EXTINF line.
type PlaylistEntry struct {
	Name  string
	TvgID string
	Logo  string
	Group string
}

// BuildPlaylist renders a single-entry M3U playlist for streamURL.
// Attributes appear space-joined in fixed order (tvg-id, tvg-logo,
// group-title), present only when non-empty:
//
//	#EXTM3U
//	#EXTINF:-1 tvg-id="news1",Test
//	https://example/stream.m3u8
func BuildPlaylist(streamURL string, entry PlaylistEntry) string {
	attrs := make([]string, 0, 3)
	if entry.TvgID != "" {
		attrs = append(attrs, fmt.Sprintf("tvg-id=%q", entry.TvgID))
	}
	if entry.Logo != "" {
		attrs = append(attrs, fmt.Sprintf("tvg-logo=%q", entry.Logo))
	}
	if entry.Group != "" {
		attrs = append(attrs, fmt.Sprintf("group-title=%q", entry.Group))
	}

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXTINF:-1 ")
	b.WriteString(strings.Join(attrs, " "))
	b.WriteString(",")
	b.WriteString(entry.Name)
	b.WriteString("\n")
	b.WriteString(streamURL)
	b.WriteString("\n")
	return b.String()
}
