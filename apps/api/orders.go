package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/fastlogix/fastlogix/pkg/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// newOrderID builds ids like ORD-483920-7151: the last six digits of
// the creation timestamp plus a random four-digit suffix.
func newOrderID() string {
	ms := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("ORD-%s-%d", ms[len(ms)-6:], rand.Intn(9000)+1000)
}

type createOrderRequest struct {
	Sender         model.Party       `json:"sender"`
	Receiver       model.Party       `json:"receiver"`
	PackageDetails map[string]string `json:"packageDetails"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Sender.Name == "" || req.Receiver.Name == "" || req.Receiver.Address == "" {
		respondError(w, http.StatusBadRequest, "Missing order details")
		return
	}

	pt, err := s.geo.Lookup(r.Context(), req.Receiver.Address)
	if err != nil {
		s.log.Error("geocoding failed", zap.String("address", req.Receiver.Address), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	now := time.Now().UTC()
	order := model.Order{
		OrderID:        newOrderID(),
		Sender:         req.Sender,
		Receiver:       req.Receiver,
		PackageDetails: req.PackageDetails,
		Status:         model.StatusPending,
		Location:       model.Location{Address: req.Receiver.Address, Lat: pt.Lat, Lon: pt.Lon},
		History: []model.Location{
			{Address: req.Receiver.Address, Lat: pt.Lat, Lon: pt.Lon, Timestamp: now},
		},
		CreatedAt: now,
	}

	if err := s.orders.Create(r.Context(), order); err != nil {
		s.log.Error("failed to create order", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	s.log.Info("order created", zap.String("order_id", order.OrderID))

	s.publish(model.OrderCreated, order)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order created",
		"order":   order,
	})
}

// publish emits an order event for the notifier. Failures are logged
// only; email is best-effort and never blocks the caller's flow.
func (s *Server) publish(eventType string, order model.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := model.OrderEvent{Type: eventType, Order: order, Timestamp: time.Now().UTC()}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Error("failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.List(r.Context())
	if err != nil {
		s.log.Error("failed to list orders", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.log.Error("failed to get order", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleTrackOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.log.Error("failed to track order", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch order track info")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

type updateLocationRequest struct {
	Location string `json:"location"`
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req updateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Location == "" {
		respondError(w, http.StatusBadRequest, "Invalid location payload")
		return
	}

	pt, err := s.geo.Lookup(r.Context(), req.Location)
	if err != nil {
		s.log.Error("geocoding failed", zap.String("address", req.Location), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Geocoding failed")
		return
	}

	order, err := s.orders.UpdateLocation(r.Context(), orderID,
		model.Location{Address: req.Location, Lat: pt.Lat, Lon: pt.Lon})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.log.Error("failed to update location", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update location")
		return
	}

	s.publish(model.OrderLocationUpdated, order)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Location updated for " + orderID,
		"order":   order,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "Invalid status payload")
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		s.log.Error("failed to update status", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	s.log.Info("status updated", zap.String("order_id", orderID), zap.String("status", req.Status))

	s.publish(model.OrderStatusUpdated, order)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Status updated for " + orderID,
		"order":   order,
	})
}
