package locale

import (
	"embed"
	"encoding/json"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed messages/*.json
var messageFiles embed.FS

var bundle = loadBundle()

func loadBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.Malay)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range []string{"active.ms.json", "active.en.json", "active.zh.json"} {
		if _, err := b.LoadMessageFileFS(messageFiles, "messages/"+name); err != nil {
			panic(err)
		}
	}
	return b
}

// Localizer returns a localizer for a site locale code, falling back to the
// default locale for missing messages.
func Localizer(code string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, Tag(code).String(), Tag(Default).String())
}

// StatusMessage is the user-facing text for an upstream HTTP status.
func StatusMessage(code string, status int) string {
	id := "error-upstream"
	switch {
	case status == http.StatusUnauthorized:
		id = "error-unauthenticated"
	case status == http.StatusForbidden:
		id = "error-forbidden"
	case status == http.StatusNotFound:
		id = "error-not-found"
	case status == http.StatusUnprocessableEntity, status == http.StatusBadRequest:
		id = "error-invalid"
	}
	return Localizer(code).MustLocalize(&i18n.LocalizeConfig{MessageID: id})
}
