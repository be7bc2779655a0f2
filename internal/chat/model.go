package chat

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAdmin    SenderType = "admin"
)

// Conversation is a support thread between a customer (anggota) and staff.
// The backend owns it; every call re-fetches. Timestamps are kept as the
// backend formats them.
type Conversation struct {
	ID            int          `json:"id"`
	BrandID       int          `json:"brand_id"`
	AnggotaID     int          `json:"anggota_id"`
	Subject       *string      `json:"subject"`
	Status        Status       `json:"status"`
	LastMessageAt *string      `json:"last_message_at"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
	UnreadCount   *int         `json:"unread_count,omitempty"`
	LatestMessage *ChatMessage `json:"latest_message,omitempty"`
}

type Sender struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ChatMessage is immutable once created, apart from ReadAt which the backend
// sets on first read.
type ChatMessage struct {
	ID             int        `json:"id"`
	ConversationID int        `json:"chat_conversation_id"`
	UserID         int        `json:"user_id"`
	SenderType     SenderType `json:"sender_type"`
	Body           *string    `json:"body"` // nil for image-only messages
	ReadAt         *string    `json:"read_at"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
	Attachments    []string   `json:"attachments"`
	Sender         *Sender    `json:"sender,omitempty"`
}

type UnreadCount struct {
	UnreadCount int `json:"unread_count"`
}

// createConversationRequest omits subject entirely when nil, so the body is
// {} rather than {"subject":null}.
type createConversationRequest struct {
	Subject *string `json:"subject,omitempty"`
}

type sendTextRequest struct {
	Body string `json:"body"`
}
