package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryStateCanAdvance(t *testing.T) {
	tests := []struct {
		from, to DeliveryState
		ok       bool
	}{
		{StateSent, StateDelivered, true},
		{StateSent, StateSeen, true},
		{StateDelivered, StateSeen, true},
		{StateSeen, StateSeen, true},
		{StateSeen, StateDelivered, false},
		{StateSeen, StateSent, false},
		{StateDelivered, StateSent, false},
		{DeliveryState("bogus"), StateSeen, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanAdvance(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestChatMessageValidate(t *testing.T) {
	valid := ChatMessage{
		ID:      1000,
		OrderID: "ORD-123456-7890",
		Sender:  SenderClient,
		Body:    "hi",
	}
	require.NoError(t, valid.Validate())

	t.Run("missing order id", func(t *testing.T) {
		m := valid
		m.OrderID = ""
		var verr *ValidationError
		require.ErrorAs(t, m.Validate(), &verr)
		assert.Equal(t, "orderId", verr.Field)
	})

	t.Run("unknown sender", func(t *testing.T) {
		m := valid
		m.Sender = "Bot"
		var verr *ValidationError
		require.ErrorAs(t, m.Validate(), &verr)
		assert.Equal(t, "sender", verr.Field)
	})

	t.Run("empty body without attachment", func(t *testing.T) {
		m := valid
		m.Body = ""
		require.Error(t, m.Validate())
	})

	t.Run("attachment carries a placeholder body", func(t *testing.T) {
		m := valid
		m.Body = ""
		m.Attachment = &Attachment{Name: "label.pdf", MimeType: "application/pdf", Data: "aGVsbG8="}
		require.NoError(t, m.Validate())
	})
}

func TestChatMessageWireShape(t *testing.T) {
	m := ChatMessage{
		ID:        1700000000000,
		OrderID:   "ORD-000001-0001",
		Sender:    SenderAdmin,
		Body:      "package is out for delivery",
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:    StateDelivered,
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "Admin", fields["sender"])
	assert.Equal(t, "delivered", fields["status"])
	assert.Equal(t, "package is out for delivery", fields["message"])
	assert.NotContains(t, fields, "serverId", "zero server id stays off the wire")
	assert.NotContains(t, fields, "attachment")
}

func TestEventEnvelope(t *testing.T) {
	ev, err := NewEvent(EventTyping, TypingEvent{OrderID: "ORD-1", Typing: true})
	require.NoError(t, err)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var back Event
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, EventTyping, back.Name)

	var payload TypingEvent
	require.NoError(t, json.Unmarshal(back.Data, &payload))
	assert.True(t, payload.Typing)
}
