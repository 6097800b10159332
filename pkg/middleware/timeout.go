package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/logger"
)

// deadlineWriter discards whatever the handler writes after the request
// expired, so a late handler cannot corrupt the 504 already sent.
type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	started bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired || dw.started {
		return
	}
	dw.started = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.started = true
	return dw.ResponseWriter.Write(b)
}

// expire closes the writer to the handler and reports whether the caller
// still owns an untouched response.
func (dw *deadlineWriter) expire() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	return !dw.started
}

// RequestTimeout runs the handler under a deadline. A handler still busy at
// the deadline gets a TIMEOUT envelope in its place; a client that went away
// gets nothing. Panics are re-raised on the serving goroutine so Recovery
// still sees them.
func RequestTimeout(timeout time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(dw, r)
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				untouched := dw.expire()
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					log.Debug("Client went away before the response", callerAttrs(r, "path", r.URL.Path)...)
					return
				}
				log.Warn("Request timed out", callerAttrs(r,
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout.String(),
				)...)
				if untouched {
					reject(w, apperrors.Timeout("Request timeout"))
				}
			}
		})
	}
}
