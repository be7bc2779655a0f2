package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"mysolution-web/internal/api"
	"mysolution-web/internal/chat"
	myMiddleware "mysolution-web/internal/middleware"
)

const usage = `usage: chatctl [-base url] [-token t] <command> [flags]

commands:
  create      [-subject s]
  messages    -id N [-page N] [-paginate N]
  send        -id N -body s
  send-image  -id N -file path [-body s]
  unread
  watch       [-ws ws://localhost:8080/ws/unread]
`

func main() {
	_ = godotenv.Load()

	base := flag.String("base", envOr("API_BASE_URL", api.DefaultBaseURL), "backend base URL")
	token := flag.String("token", os.Getenv("CHAT_TOKEN"), "bearer token (default $CHAT_TOKEN)")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := chat.NewClient(*base, api.StaticToken(*token), chat.WithHTTPClient(&http.Client{Timeout: *timeout}))
	cmd, args := flag.Arg(0), flag.Args()[1:]

	var (
		result any
		err    error
	)
	switch cmd {
	case "create":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		subject := fs.String("subject", "", "conversation subject")
		fs.Parse(args)
		var s *string
		if *subject != "" {
			s = subject
		}
		result, err = client.CreateConversation(ctx, s)

	case "messages":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "conversation id")
		page := fs.Int("page", chat.DefaultPage, "page")
		paginate := fs.Int("paginate", chat.DefaultPageSize, "page size")
		fs.Parse(args)
		result, err = client.GetMessages(ctx, *id, *page, *paginate)

	case "send":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "conversation id")
		body := fs.String("body", "", "message text")
		fs.Parse(args)
		result, err = client.SendTextMessage(ctx, *id, *body)

	case "send-image":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "conversation id")
		path := fs.String("file", "", "image path")
		body := fs.String("body", "", "optional caption")
		fs.Parse(args)
		result, err = sendImage(ctx, client, *id, *path, *body)

	case "unread":
		result, err = client.GetUnreadCount(ctx)

	case "watch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		wsURL := fs.String("ws", "ws://localhost:8080/ws/unread", "unread websocket URL")
		fs.Parse(args)
		err = watch(ctx, *wsURL, *token)

	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		if status := api.StatusCode(err); status == http.StatusUnauthorized {
			log.Fatalf("❌ %s: not signed in (check -token)", cmd)
		}
		log.Fatalf("❌ %s: %v", cmd, err)
	}
	if result != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	}
}

func sendImage(ctx context.Context, client *chat.Client, id int, path, body string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return client.SendImageMessage(ctx, id, chat.Image{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        f,
	}, body)
}

// watch prints every unread-count push until interrupted or closed.
func watch(ctx context.Context, wsURL, token string) error {
	header := http.Header{}
	header.Set("Cookie", (&http.Cookie{Name: myMiddleware.TokenCookie, Value: token}).String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		var msg struct {
			UnreadCount int `json:"unread_count"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return nil
			}
			return err
		}
		log.Printf("📬 unread: %d", msg.UnreadCount)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
