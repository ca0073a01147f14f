package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/fastlogix/fastlogix/pkg/snowflake"
)

// Messages is the durable append-only log of chat messages, keyed by
// conversation (order) id. Rows are immutable once written except for
// delivery_state, which only moves forward.
//
// The clustering key (created_at ASC, id ASC) makes History ordering a
// property of the schema.
type Messages struct {
	session *Session
	ids     *snowflake.Node
}

func NewMessages(session *Session, ids *snowflake.Node) *Messages {
	return &Messages{session: session, ids: ids}
}

// Append validates and persists a message. CreatedAt is assigned here
// when the client did not supply one, the delivery state starts at
// "sent", and an authoritative server id is attached.
func (s *Messages) Append(ctx context.Context, msg model.ChatMessage) (model.ChatMessage, error) {
	if err := msg.Validate(); err != nil {
		return model.ChatMessage{}, err
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.ServerID = s.ids.Generate()
	msg.Status = model.StateSent

	var attName, attMime, attData string
	if msg.Attachment != nil {
		attName = msg.Attachment.Name
		attMime = msg.Attachment.MimeType
		attData = msg.Attachment.Data
	}

	query := `INSERT INTO messages
		(conversation_id, created_at, id, server_id, sender, body,
		 attachment_name, attachment_mime, attachment_data, delivery_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := s.session.Query(query,
		msg.OrderID, msg.Timestamp, msg.ID, msg.ServerID, string(msg.Sender), msg.Body,
		attName, attMime, attData, string(msg.Status),
	).WithContext(ctx).Exec(); err != nil {
		return model.ChatMessage{}, fmt.Errorf("append message: %w", err)
	}

	return msg, nil
}

// History returns every message of a conversation in (created_at, id)
// ascending order. An unknown conversation yields an empty slice.
func (s *Messages) History(ctx context.Context, orderID string) ([]model.ChatMessage, error) {
	query := `SELECT created_at, id, server_id, sender, body,
		attachment_name, attachment_mime, attachment_data, delivery_state
		FROM messages WHERE conversation_id = ?`

	iter := s.session.Query(query, orderID).WithContext(ctx).Iter()

	messages := []model.ChatMessage{}
	var (
		createdAt                 time.Time
		id, serverID              int64
		sender, body, state       string
		attName, attMime, attData string
	)
	for iter.Scan(&createdAt, &id, &serverID, &sender, &body, &attName, &attMime, &attData, &state) {
		msg := model.ChatMessage{
			ID:        id,
			ServerID:  serverID,
			OrderID:   orderID,
			Sender:    model.Sender(sender),
			Body:      body,
			Timestamp: createdAt,
			Status:    model.DeliveryState(state),
		}
		if attName != "" || attData != "" {
			msg.Attachment = &model.Attachment{Name: attName, MimeType: attMime, Data: attData}
		}
		messages = append(messages, msg)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("history %s: %w", orderID, err)
	}

	return messages, nil
}

// MarkSeen advances a message to "seen". The client id is not part of
// the primary key, so the known partition is scanned for the first
// matching row. Returns ErrNotFound when no row matches; callers treat
// that as benign. Never regresses an already-seen row.
func (s *Messages) MarkSeen(ctx context.Context, orderID string, messageID int64) error {
	query := `SELECT created_at, id, delivery_state FROM messages WHERE conversation_id = ?`
	iter := s.session.Query(query, orderID).WithContext(ctx).Iter()

	var (
		createdAt time.Time
		id        int64
		state     string
	)
	found := false
	var foundAt time.Time
	var foundState model.DeliveryState
	for iter.Scan(&createdAt, &id, &state) {
		if id == messageID {
			found = true
			foundAt = createdAt
			foundState = model.DeliveryState(state)
			break
		}
	}
	if err := iter.Close(); err != nil {
		return fmt.Errorf("mark seen %s/%d: %w", orderID, messageID, err)
	}
	if !found {
		return ErrNotFound
	}

	if !foundState.CanAdvance(model.StateSeen) || foundState == model.StateSeen {
		return nil
	}

	update := `UPDATE messages SET delivery_state = ?
		WHERE conversation_id = ? AND created_at = ? AND id = ?`
	if err := s.session.Query(update,
		string(model.StateSeen), orderID, foundAt, messageID,
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("mark seen %s/%d: %w", orderID, messageID, err)
	}
	return nil
}

// DistinctConversationIDs lists every conversation with at least one
// stored message.
func (s *Messages) DistinctConversationIDs(ctx context.Context) ([]string, error) {
	iter := s.session.Query(`SELECT DISTINCT conversation_id FROM messages`).
		WithContext(ctx).Iter()

	var ids []string
	var id string
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("distinct conversations: %w", err)
	}
	return ids, nil
}
