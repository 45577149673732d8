package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"entertablock.io/internal/auth"
	"entertablock.io/internal/registry"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth attaches the caller named by a bearer token. Requests without a
// token continue anonymously; handlers that mutate state demand a caller.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(authHeader)
		if r.Method == http.MethodOptions || strings.TrimSpace(header) == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, err := extractBearerToken(header)
		if err != nil {
			unauthorized(w, r, err.Error())
			return
		}
		claims, err := auth.ParseAndValidate(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				unauthorized(w, r, "invalid token")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}
		id, err := claims.Identity()
		if err != nil {
			unauthorized(w, r, "invalid token subject")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), id, claims.Roles)))
	})
}

// caller returns the authenticated identity or answers 401.
func caller(w http.ResponseWriter, r *http.Request) (registry.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		unauthorized(w, r, "authentication required")
		return "", false
	}
	return id, true
}

// RequireRole rejects requests whose token lacks role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.IdentityFromContext(r.Context()); !ok {
				unauthorized(w, r, "authentication required")
				return
			}
			if !auth.HasRole(r.Context(), role) {
				w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
				writeError(w, r, http.StatusForbidden, "missing role "+role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="entertablock"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
