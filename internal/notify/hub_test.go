package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysolution-web/internal/api"
	myMiddleware "mysolution-web/internal/middleware"
)

func startHub(t *testing.T, fetch UnreadFetcher) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(fetch, 20*time.Millisecond)
	go hub.Run(ctx)

	srv := httptest.NewServer(myMiddleware.Session(http.HandlerFunc(hub.ServeWs)))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if token != "" {
		header.Set("Cookie", myMiddleware.TokenCookie+"="+token)
	}
	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
}

func TestHubPushesChangesOnly(t *testing.T) {
	var count atomic.Int32
	count.Store(3)
	var seenToken atomic.Value
	srv := startHub(t, func(ctx context.Context, tokens api.TokenSource) (int, error) {
		seenToken.Store(api.BearerHeader(tokens))
		return int(count.Load()), nil
	})

	conn, _, err := dial(t, srv, "tok")
	require.NoError(t, err)
	defer conn.Close()

	var msg map[string]int
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 3, msg["unread_count"])
	assert.Equal(t, "Bearer tok", seenToken.Load())

	count.Store(5)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 5, msg["unread_count"])
}

func TestHubClosesOnUnauthorized(t *testing.T) {
	srv := startHub(t, func(ctx context.Context, tokens api.TokenSource) (int, error) {
		return 0, &api.HTTPError{StatusCode: http.StatusUnauthorized}
	})

	conn, _, err := dial(t, srv, "tok")
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), err.Error())
}

func TestServeWsRequiresToken(t *testing.T) {
	srv := startHub(t, func(ctx context.Context, tokens api.TokenSource) (int, error) {
		return 0, nil
	})

	_, res, err := dial(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
