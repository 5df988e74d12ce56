package cors

import "net/http"

// Middleware returns chi-compatible middleware that adds a wildcard
// cross-origin allow header to every response, so browser-based players can
// fetch resolved URLs and playlists directly.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}
