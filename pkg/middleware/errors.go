package middleware

import (
	"net/http"

	apperrors "spacehub/pkg/errors"
	httputil "spacehub/pkg/http"
)

const codeRateLimited = "RATE_LIMITED"

// reject writes err in the same envelope handlers use, so clients see one
// error shape whether a request died in middleware or in a service.
func reject(w http.ResponseWriter, err *apperrors.AppError) {
	_ = httputil.WriteError(w, err)
}

// callerAttrs adds the authenticated tenant and user to a log line when the
// request got past authentication.
func callerAttrs(r *http.Request, attrs ...any) []any {
	attrs = append(attrs, "request_id", requestIDFrom(r))
	if identity, ok := IdentityFromContext(r.Context()); ok {
		attrs = append(attrs, "tenant_id", identity.TenantID, "user_id", identity.UserID)
	}
	return attrs
}
