package middleware

import (
	"net/http"

	apperrors "spacehub/pkg/errors"
)

// MaxRequestSize rejects declared oversize bodies up front and caps streamed
// ones so a decoder fails instead of reading past maxBytes.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				reject(w, apperrors.New(apperrors.CodeBadRequest, "Request body too large", http.StatusRequestEntityTooLarge).
					WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
