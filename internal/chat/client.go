package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"mysolution-web/internal/api"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// Client talks to the chat endpoints of the backend. It holds no state
// besides configuration; concurrent calls race independently.
type Client struct {
	baseURL string
	tokens  api.TokenSource
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, tokens api.TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Image is the file part of an image message.
type Image struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// CreateConversation creates a conversation, or returns the caller's open one;
// the backend decides which. A nil subject is left out of the body.
func (c *Client) CreateConversation(ctx context.Context, subject *string) (*api.Envelope[Conversation], error) {
	out := &api.Envelope[Conversation]{}
	if err := c.createConversation(ctx, subject, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMessages fetches one page of a conversation's messages. Zero is a
// sentinel for "unset": a zero page or pageSize is sent as 1 or 20, never as 0.
func (c *Client) GetMessages(ctx context.Context, conversationID, page, pageSize int) (*api.Envelope[api.Page[ChatMessage]], error) {
	out := &api.Envelope[api.Page[ChatMessage]]{}
	if err := c.getMessages(ctx, conversationID, page, pageSize, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendTextMessage(ctx context.Context, conversationID int, body string) (*api.Envelope[ChatMessage], error) {
	out := &api.Envelope[ChatMessage]{}
	if err := c.sendTextMessage(ctx, conversationID, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendImageMessage posts the image as multipart form data, with body as an
// extra field when non-empty. The Content-Type carries the writer's boundary
// and is never application/json.
func (c *Client) SendImageMessage(ctx context.Context, conversationID int, image Image, body string) (*api.Envelope[ChatMessage], error) {
	out := &api.Envelope[ChatMessage]{}
	if err := c.sendImageMessage(ctx, conversationID, image, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUnreadCount(ctx context.Context) (*api.Envelope[UnreadCount], error) {
	out := &api.Envelope[UnreadCount]{}
	if err := c.getUnreadCount(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// The Raw variants return the backend's reply body untouched, for callers
// that relay it rather than read it.

func (c *Client) CreateConversationRaw(ctx context.Context, subject *string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.createConversation(ctx, subject, &out)
	return out, err
}

func (c *Client) GetMessagesRaw(ctx context.Context, conversationID, page, pageSize int) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.getMessages(ctx, conversationID, page, pageSize, &out)
	return out, err
}

func (c *Client) SendTextMessageRaw(ctx context.Context, conversationID int, body string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.sendTextMessage(ctx, conversationID, body, &out)
	return out, err
}

func (c *Client) SendImageMessageRaw(ctx context.Context, conversationID int, image Image, body string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.sendImageMessage(ctx, conversationID, image, body, &out)
	return out, err
}

func (c *Client) GetUnreadCountRaw(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.getUnreadCount(ctx, &out)
	return out, err
}

func (c *Client) createConversation(ctx context.Context, subject *string, out any) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/chat/conversations", createConversationRequest{Subject: subject}, out)
}

func (c *Client) getMessages(ctx context.Context, conversationID, page, pageSize int, out any) error {
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("paginate", strconv.Itoa(pageSize))
	return c.doJSON(ctx, http.MethodGet, messagesPath(conversationID)+"?"+params.Encode(), nil, out)
}

func (c *Client) sendTextMessage(ctx context.Context, conversationID int, body string, out any) error {
	return c.doJSON(ctx, http.MethodPost, messagesPath(conversationID), sendTextRequest{Body: body}, out)
}

func (c *Client) sendImageMessage(ctx context.Context, conversationID int, image Image, body string, out any) error {
	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)

	part, err := form.CreatePart(imageHeader(image))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, image.Data); err != nil {
		return err
	}
	if body != "" {
		if err := form.WriteField("body", body); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, messagesPath(conversationID), buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) getUnreadCount(ctx context.Context, out any) error {
	return c.doJSON(ctx, http.MethodGet, "/v1/chat/unread-count", nil, out)
}

// doJSON sends payload as JSON when non-nil. Bodyless requests carry no
// Content-Type.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// newRequest reads the token afresh for every request.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", api.BearerHeader(c.tokens))
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := api.CheckResponse(res); err != nil {
		return err
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func messagesPath(conversationID int) string {
	return fmt.Sprintf("/v1/chat/conversations/%d/messages", conversationID)
}

func imageHeader(image Image) textproto.MIMEHeader {
	filename := image.Filename
	if filename == "" {
		filename = "image"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
