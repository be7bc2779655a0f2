package notify

import (
	"context"
	"net/http"

	"mysolution-web/internal/api"
	"mysolution-web/internal/chat"
)

// ChatUnread polls the backend's unread-count endpoint.
func ChatUnread(baseURL string, httpClient *http.Client) UnreadFetcher {
	return func(ctx context.Context, tokens api.TokenSource) (int, error) {
		res, err := chat.NewClient(baseURL, tokens, chat.WithHTTPClient(httpClient)).GetUnreadCount(ctx)
		if err != nil {
			return 0, err
		}
		return res.Data.UnreadCount, nil
	}
}
