package guard

import "net/http"

// MaxBody returns middleware that caps the request body size on every
// request. The cap is generous because reports carry embedded screenshot
// data; an oversize body fails at the handler's read and surfaces as a
// decode error there.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
