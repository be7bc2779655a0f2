package myMiddleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mysolution-web/internal/api"
)

type contextKey string

const (
	TokenKey contextKey = "token"

	// TokenCookie is the cookie the sign-in page writes the bearer token to.
	TokenCookie = "token"
)

// Session copies the token cookie into the request context so handlers can
// build an api.TokenSource from it. Tokens that are not JWTs are passed
// through untouched. A JWT whose exp has passed is dropped, so upstream calls
// go out as "Bearer null" rather than carrying the stale cookie; the backend
// answers 401 either way.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(TokenCookie)
		if err != nil || cookie.Value == "" || expired(cookie.Value, time.Now()) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), TokenKey, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFrom returns a TokenSource reading the session token stored by Session.
func TokenFrom(ctx context.Context) api.TokenSource {
	return func() (string, bool) {
		token, ok := ctx.Value(TokenKey).(string)
		return token, ok && token != ""
	}
}

// expired reports whether token is a JWT whose exp claim is before now. The
// signature is not checked; the backend does that.
func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(now)
}
