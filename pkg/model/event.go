package model

import (
	"encoding/json"
	"time"
)

// Event names multiplexed over one websocket connection. Names match
// the browser client.
const (
	EventJoinRoom    = "joinRoom"
	EventChatHistory = "chatHistory"
	EventChatMessage = "chatMessage"
	EventNewMessage  = "newMessage"
	EventMessageSeen = "messageSeen"
	EventTyping      = "typing"
)

// Event is the wire envelope for every chat frame.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

func NewEvent(name string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: raw}, nil
}

// SeenRequest is the client-to-server messageSeen payload.
type SeenRequest struct {
	OrderID   string `json:"orderId"`
	MessageID int64  `json:"messageId"`
}

// SeenReceipt is the room-wide messageSeen broadcast. Only the id is
// carried; receivers patch their local copy of the message.
type SeenReceipt struct {
	MessageID int64 `json:"messageId"`
}

type TypingEvent struct {
	OrderID string `json:"orderId"`
	Typing  bool   `json:"typing"`
}

// Order event types published to Kafka for the notifier.
const (
	OrderCreated         = "order_created"
	OrderStatusUpdated   = "order_status_updated"
	OrderLocationUpdated = "order_location_updated"
)

// OrderEvent is the payload of the order-events topic.
type OrderEvent struct {
	Type      string    `json:"type"`
	Order     Order     `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}
