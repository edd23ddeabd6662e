package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

type ContextKey string

const userNameKey ContextKey = "userName"

const sessionUserName = "userName"

// WithRememberedUser copies the display name stored in the session, if any,
// into the request context. There is no account model; the pool is on the
// honor system and the session only saves retyping the name.
func WithRememberedUser(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if name := sessionManager.GetString(r.Context(), sessionUserName); name != "" {
				ctx := context.WithValue(r.Context(), userNameKey, name)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RememberUser stores the display name in the session for later visits.
func RememberUser(ctx context.Context, sessionManager *scs.SessionManager, name string) {
	sessionManager.Put(ctx, sessionUserName, name)
}

func RememberedUser(ctx context.Context) (string, bool) {
	val := ctx.Value(userNameKey)
	if val == nil {
		return "", false
	}
	name, ok := val.(string)
	return name, ok
}
