package account

import (
	"context"
	"encoding/json"
	"net/http"

	"mysolution-web/internal/api"
	myMiddleware "mysolution-web/internal/middleware"
	"mysolution-web/internal/response"
)

// SettingsSource returns the public settings payload.
type SettingsSource interface {
	Get(ctx context.Context) (json.RawMessage, error)
}

type Handler struct {
	client   *api.Client
	settings SettingsSource
}

func NewHandler(client *api.Client, settings SettingsSource) *Handler {
	return &Handler{client: client, settings: settings}
}

// Me returns the signed-in user's profile.
//
// Without a token the sign-in navigation is recorded and the upstream call is
// still made; the browser is then redirected whatever that call returned.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	navigateTo := ""
	nav := api.NavigatorFunc(func(path string) { navigateTo = path })

	data, err := h.client.GetUserData(r.Context(), myMiddleware.TokenFrom(r.Context()), nav)
	if navigateTo != "" {
		http.Redirect(w, r, navigateTo, http.StatusFound)
		return
	}
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.JSON(w, api.Envelope[json.RawMessage]{Code: http.StatusOK, Message: "OK", Data: data})
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	data, err := h.settings.Get(r.Context())
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.JSON(w, api.Envelope[json.RawMessage]{Code: http.StatusOK, Message: "OK", Data: data})
}
