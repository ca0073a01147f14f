// Terminal chat client for poking at the chat service.
//
//	go run ./client -order ORD-483920-7151 -sender Admin
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/gorilla/websocket"
)

func send(c *websocket.Conn, name string, data interface{}) error {
	ev, err := model.NewEvent(name, data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, raw)
}

func main() {
	serverAddr := flag.String("addr", "localhost:8080", "chat service address")
	orderID := flag.String("order", "", "order id to chat about")
	sender := flag.String("sender", string(model.SenderClient), "sender role: Client or Admin")
	flag.Parse()

	if *orderID == "" {
		log.Fatal("-order is required")
	}

	u := url.URL{Scheme: "ws", Host: *serverAddr, Path: "/ws"}
	log.Printf("connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	if err := send(c, model.EventJoinRoom, *orderID); err != nil {
		log.Fatal("join:", err)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}

			var ev model.Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				log.Printf("received raw: %s", raw)
				continue
			}

			switch ev.Name {
			case model.EventChatHistory:
				var history []model.ChatMessage
				if err := json.Unmarshal(ev.Data, &history); err != nil {
					continue
				}
				fmt.Printf("\r--- %d earlier messages ---\n", len(history))
				for _, m := range history {
					fmt.Printf("[%d] %s: %s (%s)\n", m.ID, m.Sender, m.Body, m.Status)
				}
				fmt.Print("> ")
			case model.EventNewMessage:
				var m model.ChatMessage
				if err := json.Unmarshal(ev.Data, &m); err != nil {
					continue
				}
				fmt.Printf("\r[%d] %s: %s\n> ", m.ID, m.Sender, m.Body)
			case model.EventMessageSeen:
				var receipt model.SeenReceipt
				if err := json.Unmarshal(ev.Data, &receipt); err != nil {
					continue
				}
				fmt.Printf("\rmessage %d seen\n> ", receipt.MessageID)
			case model.EventTyping:
				var tp model.TypingEvent
				if err := json.Unmarshal(ev.Data, &tp); err != nil {
					continue
				}
				if tp.Typing {
					fmt.Print("\rother side is typing...\n> ")
				}
			}
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Print("> ")
		for scanner.Scan() {
			text := scanner.Text()
			if text == "" {
				fmt.Print("> ")
				continue
			}

			switch {
			case text == "/quit":
				close(interrupt)
				return

			case text == "/typing":
				if err := send(c, model.EventTyping, model.TypingEvent{OrderID: *orderID, Typing: true}); err != nil {
					log.Println("write:", err)
					return
				}

			case strings.HasPrefix(text, "/seen "):
				id, err := strconv.ParseInt(strings.TrimPrefix(text, "/seen "), 10, 64)
				if err != nil {
					fmt.Println("usage: /seen <message id>")
					fmt.Print("> ")
					continue
				}
				if err := send(c, model.EventMessageSeen, model.SeenRequest{OrderID: *orderID, MessageID: id}); err != nil {
					log.Println("write:", err)
					return
				}

			default:
				msg := model.ChatMessage{
					ID:        time.Now().UnixMilli(),
					OrderID:   *orderID,
					Sender:    model.Sender(*sender),
					Body:      text,
					Timestamp: time.Now(),
					Status:    model.StateSent,
				}
				if err := send(c, model.EventChatMessage, msg); err != nil {
					log.Println("write:", err)
					return
				}
			}
			fmt.Print("> ")
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("interrupt")

			err := c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("write close:", err)
				return
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}
