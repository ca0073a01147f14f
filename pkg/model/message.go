package model

import "time"

type Sender string

const (
	SenderClient Sender = "Client"
	SenderAdmin  Sender = "Admin"
)

func (s Sender) Valid() bool {
	return s == SenderClient || s == SenderAdmin
}

// DeliveryState is the lifecycle stage of a message. Transitions only
// move forward: sent -> delivered -> seen.
type DeliveryState string

const (
	StateSent      DeliveryState = "sent"
	StateDelivered DeliveryState = "delivered"
	StateSeen      DeliveryState = "seen"
)

func (s DeliveryState) rank() int {
	switch s {
	case StateSent:
		return 0
	case StateDelivered:
		return 1
	case StateSeen:
		return 2
	}
	return -1
}

// CanAdvance reports whether a message in state s may transition to
// next. Equal states are allowed so repeated receipts stay idempotent.
func (s DeliveryState) CanAdvance(next DeliveryState) bool {
	return s.rank() >= 0 && next.rank() >= s.rank()
}

// Attachment is an optional payload carried inline with a message.
// Data is base64 as produced by the browser FileReader.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ChatMessage is one message in an order-scoped conversation.
//
// ID is generated by the client (millisecond timestamp at creation) and
// kept for optimistic-UI reconciliation. ServerID is the authoritative
// snowflake assigned at append time. Only Status mutates after
// persistence.
type ChatMessage struct {
	ID         int64         `json:"id"`
	ServerID   int64         `json:"serverId,omitempty"`
	OrderID    string        `json:"orderId"`
	Sender     Sender        `json:"sender"`
	Body       string        `json:"message"`
	Attachment *Attachment   `json:"attachment,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     DeliveryState `json:"status"`
}

// Validate checks the fields required before persistence: an order id,
// a valid sender, and either a body or an attachment.
func (m *ChatMessage) Validate() error {
	if m.OrderID == "" {
		return &ValidationError{Field: "orderId"}
	}
	if !m.Sender.Valid() {
		return &ValidationError{Field: "sender"}
	}
	if m.Body == "" && m.Attachment == nil {
		return &ValidationError{Field: "message"}
	}
	return nil
}

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "chat message missing or invalid field: " + e.Field
}
