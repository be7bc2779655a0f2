package myMiddleware

import "net/http"

// LegacyRedirects maps old request URIs to their localized replacements.
var LegacyRedirects = map[string]string{
	"/kode-otp": "/my/kode-otp",
}

// Redirect answers a request whose raw URI exactly matches a key in rules with
// a 301 to the mapped path. Trailing slashes and query strings do not match.
func Redirect(rules map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if to, ok := rules[r.URL.RequestURI()]; ok {
				http.Redirect(w, r, to, http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
