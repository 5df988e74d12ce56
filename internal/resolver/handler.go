package resolver

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/su14iman/yt-hls/internal/platform/metrics"
)

const playlistContentType = "audio/x-mpegurl"

// Default playlist attributes, applied only when the query key is absent.
const (
	defaultChannelName  = "YouTube Live"
	defaultChannelGroup = "YouTube"
)

// Handler exposes the resolver over HTTP using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and
// optional Metrics. Metrics may be nil to disable metric recording (e.g. in
// tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// HLSURL handles GET /hls_url?url=&h=&min=.
// Body is the resolved URL plus a trailing newline.
func (h *Handler) HLSURL(w http.ResponseWriter, r *http.Request) {
	streamURL, ok := h.resolveFromQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(streamURL + "\n"))
}

// Playlist handles GET /playlist.m3u?url=&name=&logo=&group=&tvg_id=&h=&min=.
func (h *Handler) Playlist(w http.ResponseWriter, r *http.Request) {
	streamURL, ok := h.resolveFromQuery(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	entry := PlaylistEntry{
		Name:  queryDefault(q, "name", defaultChannelName),
		TvgID: queryDefault(q, "tvg_id", ""),
		Logo:  queryDefault(q, "logo", ""),
		Group: queryDefault(q, "group", defaultChannelGroup),
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(BuildPlaylist(streamURL, entry)))
}

// Redirect handles GET /redirect.m3u8?url=&h=&min= with a 302 to the
// resolved URL.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	streamURL, ok := h.resolveFromQuery(w, r)
	if !ok {
		return
	}

	http.Redirect(w, r, streamURL, http.StatusFound)
}

// Health handles GET / with a fixed success body and no resolver
// interaction.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// resolveFromQuery parses the shared query parameters, runs the resolver,
// and writes the error response when resolution cannot produce a URL. The
// second return is false when a response has already been written.
func (h *Handler) resolveFromQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()

	sourceURL := strings.TrimSpace(q.Get("url"))
	if sourceURL == "" {
		http.Error(w, "missing ?url", http.StatusBadRequest)
		return "", false
	}

	constraint := constraintFromQuery(q)

	start := time.Now()
	streamURL, err := h.svc.Resolve(r.Context(), sourceURL, constraint)
	dur := time.Since(start)
	if h.metrics != nil {
		h.metrics.ObserveResolveDuration(dur.Seconds())
	}

	if err != nil {
		h.log.Info("resolve failed",
			slog.String("source", sourceURL),
			slog.Int("target_height", constraint.TargetHeight),
			slog.Int("min_height", constraint.MinHeight),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncResolveFailures()
		}
		// Every resolver-side failure is "stream not found"; the only 400 is
		// the missing ?url short-circuit above.
		http.Error(w, err.Error(), http.StatusNotFound)
		return "", false
	}

	h.log.Debug("resolved",
		slog.String("source", sourceURL),
		slog.String("stream_url", streamURL),
		slog.Int("duration_ms", int(dur.Milliseconds())))
	if h.metrics != nil {
		h.metrics.IncResolves()
	}
	return streamURL, true
}

// constraintFromQuery reads h and min. Non-numeric values are treated as
// absent, not errors; negative min clamps to 0.
func constraintFromQuery(q url.Values) Constraint {
	var c Constraint
	if n, err := strconv.Atoi(q.Get("h")); err == nil && n > 0 {
		c.TargetHeight = n
	}
	if n, err := strconv.Atoi(q.Get("min")); err == nil && n > 0 {
		c.MinHeight = n
	}
	return c
}

// queryDefault returns the query value for key, falling back to def only
// when the key is absent. An explicitly empty value stays empty, which
// omits the corresponding playlist attribute.
func queryDefault(q url.Values, key, def string) string {
	if q.Has(key) {
		return q.Get(key)
	}
	return def
}
