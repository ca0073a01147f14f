package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// handleChatHistory is the REST fallback for a conversation's messages,
// in the same order the websocket replay uses.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	messages, err := s.messages.History(r.Context(), orderID)
	if err != nil {
		s.log.Error("failed to fetch chat history", zap.String("order_id", orderID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch chat messages")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

type activeChat struct {
	OrderID  string `json:"orderId"`
	Customer string `json:"customer"`
}

// handleActiveChats lists every conversation with at least one stored
// message, joined with the order's customer name. An id whose order
// lookup fails still appears, named "Unknown", so a broken order record
// never hides a waiting customer.
func (s *Server) handleActiveChats(w http.ResponseWriter, r *http.Request) {
	ids, err := s.messages.DistinctConversationIDs(r.Context())
	if err != nil {
		s.log.Error("failed to list active chats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to get active chats")
		return
	}

	chats := make([]activeChat, 0, len(ids))
	for _, id := range ids {
		name, err := s.orders.CustomerName(r.Context(), id)
		if err != nil || name == "" {
			name = "Unknown"
		}
		chats = append(chats, activeChat{OrderID: id, Customer: name})
	}

	respondJSON(w, http.StatusOK, chats)
}

func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	participants, err := s.participants.Participants(r.Context(), orderID)
	if err != nil {
		s.log.Error("failed to fetch participants", zap.String("order_id", orderID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch participants")
		return
	}
	if participants == nil {
		participants = []string{}
	}
	respondJSON(w, http.StatusOK, participants)
}
