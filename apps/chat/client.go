package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Attachments travel
	// base64-inline, so this is generous.
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	log  *zap.Logger

	// Buffered channel of outbound frames.
	send chan []byte

	// Closed when the connection is gone; unblocks pending history
	// replays.
	done chan struct{}

	// Connection id, used for presence and logs.
	ID string

	// Conversation this connection joined; empty until the first
	// joinRoom. Set and read only from the connection's own events.
	OrderID string
}

// readPump pumps frames from the websocket connection into the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		close(c.done)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("read error", zap.String("conn", c.ID), zap.Error(err))
			}
			break
		}
		c.handle(message)
	}
}

// handle decodes one inbound envelope and routes it. Malformed frames
// and cross-room payloads are logged and dropped; nothing is sent back.
func (c *Client) handle(message []byte) {
	var env model.Event
	if err := json.Unmarshal(message, &env); err != nil {
		c.log.Warn("malformed frame", zap.String("conn", c.ID), zap.Error(err))
		return
	}

	switch env.Name {
	case model.EventJoinRoom:
		orderID, ok := decodeJoin(env.Data)
		if !ok {
			c.log.Warn("malformed joinRoom payload", zap.String("conn", c.ID))
			return
		}
		c.hub.Join(c, orderID)

	case model.EventChatMessage:
		var msg model.ChatMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			c.log.Warn("malformed chatMessage payload", zap.String("conn", c.ID), zap.Error(err))
			return
		}
		if msg.OrderID != c.OrderID {
			c.log.Warn("chatMessage for a room the connection is not in",
				zap.String("conn", c.ID), zap.String("order_id", msg.OrderID))
			return
		}
		c.hub.dispatch(c, roomEvent{kind: evMessage, from: c.ID, msg: msg})

	case model.EventMessageSeen:
		var req model.SeenRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.log.Warn("malformed messageSeen payload", zap.String("conn", c.ID), zap.Error(err))
			return
		}
		if req.OrderID != c.OrderID {
			c.log.Warn("messageSeen for a room the connection is not in",
				zap.String("conn", c.ID), zap.String("order_id", req.OrderID))
			return
		}
		c.hub.dispatch(c, roomEvent{kind: evSeen, from: c.ID, seen: req})

	case model.EventTyping:
		var tp model.TypingEvent
		if err := json.Unmarshal(env.Data, &tp); err != nil {
			c.log.Warn("malformed typing payload", zap.String("conn", c.ID), zap.Error(err))
			return
		}
		if tp.OrderID != c.OrderID {
			return
		}
		c.hub.dispatch(c, roomEvent{kind: evTyping, from: c.ID, typing: tp})

	default:
		c.log.Warn("unknown event", zap.String("conn", c.ID), zap.String("event", env.Name))
	}
}

// decodeJoin accepts both a bare conversation id string and an
// {"orderId": ...} object, matching the browser client's emit shape.
func decodeJoin(data json.RawMessage) (string, bool) {
	var orderID string
	if err := json.Unmarshal(data, &orderID); err == nil && orderID != "" {
		return orderID, true
	}
	var obj struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.OrderID != "" {
		return obj.OrderID, true
	}
	return "", false
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *Hub, log *zap.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		log:  log,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
		ID:   uuid.NewString(),
	}
	log.Info("client connected", zap.String("conn", client.ID))

	go client.writePump()
	go client.readPump()
}
