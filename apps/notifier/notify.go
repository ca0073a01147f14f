package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fastlogix/fastlogix/pkg/model"
	"go.uber.org/zap"
)

type MailSender interface {
	Send(ctx context.Context, to, toName, subject, html string) error
}

// Notifier turns order events into transactional email. Every send is
// best-effort: failures are logged and the event is still considered
// handled.
type Notifier struct {
	mail         MailSender
	trackingBase string
	log          *zap.Logger
}

func NewNotifier(mail MailSender, trackingBase string, log *zap.Logger) *Notifier {
	return &Notifier{mail: mail, trackingBase: trackingBase, log: log}
}

func (n *Notifier) Handle(ctx context.Context, ev model.OrderEvent) {
	switch ev.Type {
	case model.OrderCreated:
		n.sendCreated(ctx, ev.Order)
	case model.OrderStatusUpdated:
		n.sendStatusUpdated(ctx, ev.Order)
	case model.OrderLocationUpdated:
		// Tracking page shows movement; no mail for location changes.
	default:
		n.log.Warn("unknown order event type", zap.String("type", ev.Type))
	}
}

func (n *Notifier) trackLink(orderID string) string {
	return n.trackingBase + "?orderId=" + url.QueryEscape(orderID)
}

func (n *Notifier) sendCreated(ctx context.Context, order model.Order) {
	link := n.trackLink(order.OrderID)

	senderHTML := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your order has been created. Order ID: <strong>%s</strong></p>
<p>You can track the package here: <a href="%s">%s</a></p>`,
		order.Sender.Name, order.OrderID, link, link)
	n.send(ctx, order.Sender, "Order Created - FastLogix", senderHTML)

	receiverHTML := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>A package has been created for you. Tracking ID: <strong>%s</strong></p>
<p>Track your package here: <a href="%s">%s</a></p>`,
		order.Receiver.Name, order.OrderID, link, link)
	n.send(ctx, order.Receiver, "Incoming Package - FastLogix", receiverHTML)
}

func (n *Notifier) sendStatusUpdated(ctx context.Context, order model.Order) {
	link := n.trackLink(order.OrderID)
	html := fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your order <strong>%s</strong> is now: <strong>%s</strong></p>
<p>Track it here: <a href="%s">%s</a></p>`,
		order.Sender.Name, order.OrderID, order.Status, link, link)
	n.send(ctx, order.Sender, fmt.Sprintf("Order %s Update - FastLogix", order.OrderID), html)
}

func (n *Notifier) send(ctx context.Context, to model.Party, subject, html string) {
	if to.Email == "" {
		n.log.Warn("skipping mail for party without email", zap.String("name", to.Name))
		return
	}
	if err := n.mail.Send(ctx, to.Email, to.Name, subject, html); err != nil {
		n.log.Error("failed to send mail",
			zap.String("to", to.Email),
			zap.String("subject", subject),
			zap.Error(err))
		return
	}
	n.log.Info("mail sent", zap.String("to", to.Email), zap.String("subject", subject))
}
