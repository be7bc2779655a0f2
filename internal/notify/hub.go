package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mysolution-web/internal/api"
)

const pollTimeout = 10 * time.Second

// UnreadFetcher returns the unread count visible to tokens.
type UnreadFetcher func(ctx context.Context, tokens api.TokenSource) (int, error)

type pollResult struct {
	client *Client
	count  int
	err    error
}

// Hub polls the unread count for every connected browser and pushes it when
// it changes. Run is the only goroutine that touches clients or Client.last.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	results    chan pollResult
	done       chan struct{}
	fetch      UnreadFetcher
	interval   time.Duration
}

func NewHub(fetch UnreadFetcher, interval time.Duration) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		results:    make(chan pollResult),
		done:       make(chan struct{}),
		fetch:      fetch,
		interval:   interval,
	}
}

func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			go h.poll(ctx, client)

		case client := <-h.unregister:
			h.remove(client)

		case <-ticker.C:
			for client := range h.clients {
				go h.poll(ctx, client)
			}

		case res := <-h.results:
			h.deliver(res)
		}
	}
}

// Register and Unregister return immediately once Run has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) poll(ctx context.Context, client *Client) {
	pctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	count, err := h.fetch(pctx, client.tokens)
	select {
	case h.results <- pollResult{client: client, count: count, err: err}:
	case <-ctx.Done():
	}
}

func (h *Hub) deliver(res pollResult) {
	client := res.client
	if _, ok := h.clients[client]; !ok {
		return
	}
	if res.err != nil {
		if api.IsUnauthorized(res.err) {
			h.remove(client)
			return
		}
		log.Printf("⚠️ unread poll for %s: %v", client.ID, res.err)
		return
	}
	if res.count == client.last {
		return
	}
	client.last = res.count

	payload, _ := json.Marshal(map[string]int{"unread_count": res.count})
	select {
	case client.send <- payload:
	default:
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
