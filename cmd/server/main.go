package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mysolution-web/internal/account"
	"mysolution-web/internal/api"
	"mysolution-web/internal/cache"
	"mysolution-web/internal/chat"
	"mysolution-web/internal/config"
	myMiddleware "mysolution-web/internal/middleware"
	"mysolution-web/internal/notify"
)

func main() {
	// 1. Config & Flags
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	addr := flag.String("addr", cfg.Addr, "http service address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	apiClient := api.NewClient(cfg.APIBaseURL, httpClient)

	// 2. Settings cache (optional)
	settings := cache.NewSettings(nil, apiClient.GetSetting, cfg.SettingsTTL)
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		store, err := cache.NewRedisStore(pingCtx, cfg.RedisAddr)
		cancel()
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer store.Close()
		settings = cache.NewSettings(store, apiClient.GetSetting, cfg.SettingsTTL)
		log.Println("✅ Connected to Redis")
	}

	// 3. Unread-count push
	hub := notify.NewHub(notify.ChatUnread(cfg.APIBaseURL, httpClient), cfg.UnreadPollInterval)
	go hub.Run(ctx)

	chatHandler := chat.NewHandler(cfg.APIBaseURL, httpClient)
	accountHandler := account.NewHandler(apiClient, settings)

	// 4. Routes
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(myMiddleware.Redirect(myMiddleware.LegacyRedirects))
	r.Use(myMiddleware.Locale)

	r.Get("/api/settings", accountHandler.Settings)

	r.Group(func(r chi.Router) {
		r.Use(myMiddleware.Session)
		r.Get("/api/me", accountHandler.Me)
		r.Mount("/api/chat", chatHandler.Routes())
		r.Get("/ws/unread", hub.ServeWs)
	})

	r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	srv := &http.Server{Addr: *addr, Handler: r}
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🚀 Server starting on %s (backend %s)", *addr, cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
