package middleware

import (
	"context"
	"net/http"
	"strings"

	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"spacehub/pkg/logger"
	"spacehub/pkg/model"
)

const IdentityKey contextKey = "identity"

type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// Authenticate requires a valid bearer token on every path except those
// starting with one of publicPrefixes. The verified identity is stored on the
// request context.
func Authenticate(verifier TokenVerifier, log *logger.Logger, publicPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublicPath(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				rejectUnauthorized(w, log, r, "missing bearer token")
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*model.Identity)
	return identity, ok && identity != nil
}

// RequireIdentity returns the authenticated caller, or an UNAUTHORIZED error
// when the request reached a handler without one.
func RequireIdentity(r *http.Request) (*model.Identity, error) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return nil, apperrors.Unauthorized("Could not validate credentials")
	}
	return identity, nil
}

func RequireElevated(r *http.Request) (*model.Identity, error) {
	identity, err := RequireIdentity(r)
	if err != nil {
		return nil, err
	}
	if !config.IsElevated(identity.Role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}
	return identity, nil
}

// RequireRole admits only the listed roles.
func RequireRole(r *http.Request, roles ...config.Role) (*model.Identity, error) {
	identity, err := RequireIdentity(r)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if identity.Role == role {
			return identity, nil
		}
	}
	return nil, apperrors.Forbidden("Insufficient permissions")
}

func isPublicPath(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Unauthenticated request rejected",
		"request_id", requestIDFrom(r),
		"path", r.URL.Path,
		"reason", reason,
	)
	reject(w, apperrors.Unauthorized("Could not validate credentials"))
}
