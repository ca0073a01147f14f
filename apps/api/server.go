package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fastlogix/fastlogix/pkg/auth"
	"github.com/fastlogix/fastlogix/pkg/geocode"
	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type OrderStore interface {
	Create(ctx context.Context, order model.Order) error
	Get(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (model.Order, error)
	UpdateLocation(ctx context.Context, orderID string, loc model.Location) (model.Order, error)
	CustomerName(ctx context.Context, orderID string) (string, error)
}

type MessageReader interface {
	History(ctx context.Context, orderID string) ([]model.ChatMessage, error)
	DistinctConversationIDs(ctx context.Context) ([]string, error)
}

type Geocoder interface {
	Lookup(ctx context.Context, address string) (geocode.Point, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev model.OrderEvent) error
}

type ParticipantReader interface {
	Participants(ctx context.Context, orderID string) ([]string, error)
}

// Server carries the API service's collaborators.
type Server struct {
	orders       OrderStore
	messages     MessageReader
	geo          Geocoder
	events       EventPublisher
	participants ParticipantReader
	auth         *auth.Auth
	log          *zap.Logger

	adminUsername     string
	adminPasswordHash string
	allowedOrigins    []string
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Post("/api/auth/login", s.handleLogin)

	// Public tracking and chat surfaces used by the shipper pages.
	r.Get("/api/orders/track/{orderID}", s.handleTrackOrder)
	r.Get("/api/chat/{orderID}", s.handleChatHistory)
	r.Get("/api/conversations/{orderID}/participants", s.handleParticipants)

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/api/orders", s.handleCreateOrder)
		r.Get("/api/orders", s.handleListOrders)
		r.Get("/api/orders/{orderID}", s.handleGetOrder)
		r.Patch("/api/orders/{orderID}/location", s.handleUpdateLocation)
		r.Patch("/api/orders/{orderID}/status", s.handleUpdateStatus)
		r.Get("/api/chats/active", s.handleActiveChats)
	})

	return r
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), auth.UserKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.messages.DistinctConversationIDs(ctx); err != nil {
		s.log.Warn("readiness probe failed", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func respondJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"message": message})
}
