package chat

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	myMiddleware "mysolution-web/internal/middleware"
	"mysolution-web/internal/response"
)

const maxImageSize = 10 << 20

// Handler exposes the chat client to the browser on the site's own origin,
// authenticating each upstream call with the visitor's token cookie. Request
// bodies are forwarded without content rules and successful replies are
// relayed byte for byte; the backend owns validation and the response shape.
type Handler struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

func NewHandler(baseURL string, httpClient *http.Client) *Handler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Handler{
		baseURL:  baseURL,
		http:     httpClient,
		validate: validator.New(),
	}
}

// Routes expects myMiddleware.Session to run before it.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/conversations", h.CreateConversation)
	r.Get("/conversations/{id}/messages", h.GetMessages)
	r.Post("/conversations/{id}/messages", h.SendMessage)
	r.Get("/unread-count", h.GetUnreadCount)
	return r
}

type createConversationInput struct {
	Subject *string `json:"subject"`
}

type sendTextInput struct {
	Body string `json:"body"`
}

func (h *Handler) client(r *http.Request) *Client {
	return NewClient(h.baseURL, myMiddleware.TokenFrom(r.Context()), WithHTTPClient(h.http))
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var in createConversationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, r, http.StatusBadRequest)
		return
	}

	res, err := h.client(r).CreateConversationRaw(r.Context(), in.Subject)
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.Raw(w, res)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := h.conversationID(w, r)
	if !ok {
		return
	}
	page, err1 := queryInt(r, "page", DefaultPage)
	pageSize, err2 := queryInt(r, "paginate", DefaultPageSize)
	if err1 != nil || err2 != nil {
		response.Error(w, r, http.StatusBadRequest)
		return
	}

	res, err := h.client(r).GetMessagesRaw(r.Context(), id, page, pageSize)
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.Raw(w, res)
}

// SendMessage accepts either a JSON text message or a multipart image
// message, mirroring the two upstream encodings of the same endpoint.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.conversationID(w, r)
	if !ok {
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		h.sendImage(w, r, id)
		return
	}

	var in sendTextInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest)
		return
	}

	res, err := h.client(r).SendTextMessageRaw(r.Context(), id, in.Body)
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.Raw(w, res)
}

func (h *Handler) sendImage(w http.ResponseWriter, r *http.Request, id int) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, r, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, r, http.StatusUnprocessableEntity)
		return
	}
	defer file.Close()

	img := Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}
	res, err := h.client(r).SendImageMessageRaw(r.Context(), id, img, r.FormValue("body"))
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.Raw(w, res)
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	res, err := h.client(r).GetUnreadCountRaw(r.Context())
	if err != nil {
		response.Upstream(w, r, err)
		return
	}
	response.Raw(w, res)
}

func (h *Handler) conversationID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || h.validate.Var(id, "gt=0") != nil {
		response.Error(w, r, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
