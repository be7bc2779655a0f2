package myMiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRedirectLegacyPath(t *testing.T) {
	h := Redirect(LegacyRedirects)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := serve(h, "/kode-otp")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/my/kode-otp", rec.Header().Get("Location"))

	for _, target := range []string{"/", "/kode-otp/", "/my/kode-otp", "/kode-otp?next=1", "/KODE-OTP"} {
		rec := serve(h, target)
		assert.Equal(t, http.StatusTeapot, rec.Code, target)
		assert.Empty(t, rec.Header().Get("Location"), target)
	}
}
