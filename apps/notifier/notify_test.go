package main

import (
	"context"
	"errors"
	"testing"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to, toName, subject, html string
}

type fakeMail struct {
	sent []sentMail
	err  error
}

func (f *fakeMail) Send(_ context.Context, to, toName, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, toName, subject, html})
	return nil
}

func testOrder() model.Order {
	return model.Order{
		OrderID:  "ORD-483920-7151",
		Sender:   model.Party{Name: "Jane Shipper", Email: "jane@example.com"},
		Receiver: model.Party{Name: "Bob Receiver", Email: "bob@example.com"},
		Status:   "In Transit",
	}
}

func TestOrderCreatedMailsBothParties(t *testing.T) {
	fm := &fakeMail{}
	n := NewNotifier(fm, "https://www.fastlogix.org/track", zap.NewNop())

	n.Handle(context.Background(), model.OrderEvent{Type: model.OrderCreated, Order: testOrder()})

	require.Len(t, fm.sent, 2)
	assert.Equal(t, "jane@example.com", fm.sent[0].to)
	assert.Equal(t, "Order Created - FastLogix", fm.sent[0].subject)
	assert.Equal(t, "bob@example.com", fm.sent[1].to)
	for _, m := range fm.sent {
		assert.Contains(t, m.html, "ORD-483920-7151")
		assert.Contains(t, m.html, "https://www.fastlogix.org/track?orderId=ORD-483920-7151")
	}
}

func TestStatusUpdateMailsSenderOnly(t *testing.T) {
	fm := &fakeMail{}
	n := NewNotifier(fm, "https://www.fastlogix.org/track", zap.NewNop())

	n.Handle(context.Background(), model.OrderEvent{Type: model.OrderStatusUpdated, Order: testOrder()})

	require.Len(t, fm.sent, 1)
	assert.Equal(t, "jane@example.com", fm.sent[0].to)
	assert.Contains(t, fm.sent[0].html, "In Transit")
}

func TestLocationUpdateSendsNothing(t *testing.T) {
	fm := &fakeMail{}
	n := NewNotifier(fm, "https://www.fastlogix.org/track", zap.NewNop())

	n.Handle(context.Background(), model.OrderEvent{Type: model.OrderLocationUpdated, Order: testOrder()})
	assert.Empty(t, fm.sent)
}

func TestMissingEmailIsSkipped(t *testing.T) {
	fm := &fakeMail{}
	n := NewNotifier(fm, "https://www.fastlogix.org/track", zap.NewNop())

	order := testOrder()
	order.Receiver.Email = ""
	n.Handle(context.Background(), model.OrderEvent{Type: model.OrderCreated, Order: order})

	require.Len(t, fm.sent, 1)
	assert.Equal(t, "jane@example.com", fm.sent[0].to)
}

func TestMailFailureDoesNotPanic(t *testing.T) {
	fm := &fakeMail{err: errors.New("smtp down")}
	n := NewNotifier(fm, "https://www.fastlogix.org/track", zap.NewNop())

	n.Handle(context.Background(), model.OrderEvent{Type: model.OrderCreated, Order: testOrder()})
	assert.Empty(t, fm.sent)
}
