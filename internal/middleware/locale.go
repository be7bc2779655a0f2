package myMiddleware

import (
	"net/http"

	"mysolution-web/internal/locale"
)

// Locale sends visitors of the bare root to their locale-prefixed home page
// and remembers the detected locale in a cookie.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			next.ServeHTTP(w, r)
			return
		}

		code := locale.Detect(r)
		if c, err := r.Cookie(locale.CookieName); err != nil || c.Value != code {
			http.SetCookie(w, &http.Cookie{
				Name:     locale.CookieName,
				Value:    code,
				Path:     "/",
				MaxAge:   365 * 24 * 60 * 60,
				SameSite: http.SameSiteLaxMode,
			})
		}
		http.Redirect(w, r, "/"+code+"/", http.StatusFound)
	})
}
