package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/fastlogix/fastlogix/pkg/store"
	"go.uber.org/zap"
)

// MessageStore is the slice of the message store the hub needs.
type MessageStore interface {
	Append(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error)
	History(ctx context.Context, orderID string) ([]model.ChatMessage, error)
	MarkSeen(ctx context.Context, orderID string, messageID int64) error
}

// PresenceRecorder mirrors room membership into shared state so the
// API service can report participants.
type PresenceRecorder interface {
	Join(ctx context.Context, orderID, connID string) error
	Leave(ctx context.Context, orderID, connID string) error
}

type eventKind int

const (
	evMessage eventKind = iota
	evSeen
	evTyping
)

type roomEvent struct {
	kind   eventKind
	from   string // connection id
	msg    model.ChatMessage
	seen   model.SeenRequest
	typing model.TypingEvent
}

// room is one order-scoped conversation: its connected members plus the
// single-writer queue that serializes every store-touching event, so
// delivery order within a room is the order events were processed and a
// stalled append blocks no other room.
type room struct {
	id      string
	members map[*Client]bool
	events  chan roomEvent
	typing  map[string]bool // connection id -> typing flag, last write wins
}

// Hub is the room registry. Membership changes take the write lock;
// room workers broadcast under the read lock.
type Hub struct {
	store    MessageStore
	presence PresenceRecorder
	log      *zap.Logger

	mu    sync.RWMutex
	rooms map[string]*room
}

func NewHub(st MessageStore, presence PresenceRecorder, log *zap.Logger) *Hub {
	return &Hub{
		store:    st,
		presence: presence,
		log:      log,
		rooms:    make(map[string]*room),
	}
}

// Join admits the connection into a conversation. A connection chats in
// one conversation for its lifetime; a join for a different one is
// rejected. Re-joining the same room is a routing no-op but always
// triggers a fresh history replay.
func (h *Hub) Join(c *Client, orderID string) {
	if c.OrderID != "" && c.OrderID != orderID {
		h.log.Warn("rejecting join for a second conversation",
			zap.String("conn", c.ID),
			zap.String("joined", c.OrderID),
			zap.String("requested", orderID))
		return
	}

	h.mu.Lock()
	r := h.rooms[orderID]
	if r == nil {
		r = &room{
			id:      orderID,
			members: make(map[*Client]bool),
			events:  make(chan roomEvent, 256),
			typing:  make(map[string]bool),
		}
		h.rooms[orderID] = r
		go h.runRoom(r)
	}
	r.members[c] = true
	c.OrderID = orderID
	h.mu.Unlock()

	if err := h.presence.Join(context.Background(), orderID, c.ID); err != nil {
		h.log.Warn("failed to record presence", zap.String("conn", c.ID), zap.Error(err))
	}
	h.log.Info("client joined room", zap.String("conn", c.ID), zap.String("order_id", orderID))

	go h.replayHistory(c, orderID)
}

// Leave removes the connection on disconnect. The last member out
// closes the room queue; its worker drains and exits.
func (h *Hub) Leave(c *Client) {
	if c.OrderID == "" {
		return
	}

	h.mu.Lock()
	if r, ok := h.rooms[c.OrderID]; ok && r.members[c] {
		delete(r.members, c)
		if len(r.members) == 0 {
			delete(h.rooms, c.OrderID)
			close(r.events)
		}
	}
	h.mu.Unlock()

	if err := h.presence.Leave(context.Background(), c.OrderID, c.ID); err != nil {
		h.log.Warn("failed to clear presence", zap.String("conn", c.ID), zap.Error(err))
	}
	h.log.Info("client left room", zap.String("conn", c.ID), zap.String("order_id", c.OrderID))
}

// dispatch routes an inbound event onto the sender's room queue.
// Events from connections that never joined are dropped.
func (h *Hub) dispatch(c *Client, ev roomEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r := h.rooms[c.OrderID]
	if r == nil || !r.members[c] {
		h.log.Warn("dropping event from unjoined connection", zap.String("conn", c.ID))
		return
	}
	// Enqueueing under the read lock keeps the queue open: closing it
	// requires the write lock. The enqueue must not block here, or a
	// waiting writer could starve the room worker of the read lock.
	select {
	case r.events <- ev:
	default:
		h.log.Warn("room queue full, dropping event",
			zap.String("order_id", r.id), zap.String("conn", c.ID))
	}
}

// runRoom is the room's single logical broadcaster.
func (h *Hub) runRoom(r *room) {
	ctx := context.Background()
	for ev := range r.events {
		switch ev.kind {
		case evMessage:
			stored, err := h.store.Append(ctx, ev.msg)
			if err != nil {
				// Logged and dropped; the sender gets no failure event.
				h.log.Error("failed to persist chat message",
					zap.String("order_id", r.id),
					zap.Int64("id", ev.msg.ID),
					zap.Error(err))
				continue
			}
			// Delivered-on-broadcast: the wire copy says "delivered"
			// while the stored row stays "sent" until a seen receipt.
			out := stored
			out.Status = model.StateDelivered
			h.broadcast(r, model.EventNewMessage, out)

		case evSeen:
			err := h.store.MarkSeen(ctx, r.id, ev.seen.MessageID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				h.log.Error("failed to mark message seen",
					zap.String("order_id", r.id),
					zap.Int64("message_id", ev.seen.MessageID),
					zap.Error(err))
				continue
			}
			h.broadcast(r, model.EventMessageSeen, model.SeenReceipt{MessageID: ev.seen.MessageID})

		case evTyping:
			r.typing[ev.from] = ev.typing.Typing
			h.broadcast(r, model.EventTyping, model.TypingEvent{OrderID: r.id, Typing: ev.typing.Typing})
		}
	}
}

// broadcast fans an event out to every member of the room, the sender
// included, so the sender's UI reconciles its optimistic copy with the
// server copy. Slow consumers lose the frame rather than stalling the
// room.
func (h *Hub) broadcast(r *room, name string, payload interface{}) {
	ev, err := model.NewEvent(name, payload)
	if err != nil {
		h.log.Error("failed to encode event", zap.String("event", name), zap.Error(err))
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to encode event", zap.String("event", name), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range r.members {
		select {
		case c.send <- raw:
		default:
			h.log.Warn("dropping frame for slow consumer",
				zap.String("conn", c.ID), zap.String("event", name))
		}
	}
}

// replayHistory sends the conversation's stored messages to the joining
// connection only.
func (h *Hub) replayHistory(c *Client, orderID string) {
	messages, err := h.store.History(context.Background(), orderID)
	if err != nil {
		h.log.Error("failed to load history", zap.String("order_id", orderID), zap.Error(err))
		return
	}

	ev, err := model.NewEvent(model.EventChatHistory, messages)
	if err != nil {
		h.log.Error("failed to encode history", zap.String("order_id", orderID), zap.Error(err))
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to encode history", zap.String("order_id", orderID), zap.Error(err))
		return
	}

	select {
	case c.send <- raw:
	case <-c.done:
	}
}
