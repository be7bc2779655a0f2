package locale

import (
	"net/http"

	"golang.org/x/text/language"
)

// Site locale codes, used as the first path segment of every page.
const (
	English  = "en"
	Malaysia = "my"
	China    = "cn"

	Default = Malaysia

	// CookieName remembers the visitor's chosen locale.
	CookieName = "i18n_locale"
)

// The site codes are not BCP 47 tags ("my" is Burmese there), so each one is
// mapped to the language it actually serves.
var tags = map[string]language.Tag{
	Malaysia: language.Malay,
	English:  language.English,
	China:    language.Chinese,
}

var (
	// The default must come first; the matcher falls back to it.
	supported = []string{Malaysia, English, China}
	matcher   = language.NewMatcher([]language.Tag{language.Malay, language.English, language.Chinese})
)

// Supported reports whether code is one of the site locales.
func Supported(code string) bool {
	_, ok := tags[code]
	return ok
}

// Tag returns the language tag behind a site locale code.
func Tag(code string) language.Tag {
	if t, ok := tags[code]; ok {
		return t
	}
	return tags[Default]
}

// FromAcceptLanguage picks the best site locale for an Accept-Language header.
func FromAcceptLanguage(header string) string {
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// Detect resolves the locale for a request: the locale cookie if it names a
// supported locale, then Accept-Language, then Default.
func Detect(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && Supported(c.Value) {
		return c.Value
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		return FromAcceptLanguage(header)
	}
	return Default
}
