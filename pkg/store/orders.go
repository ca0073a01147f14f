package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/gocql/gocql"
)

// Orders persists shipment orders and their location history.
type Orders struct {
	session *Session
}

func NewOrders(session *Session) *Orders {
	return &Orders{session: session}
}

func (s *Orders) Create(ctx context.Context, order model.Order) error {
	query := `INSERT INTO orders
		(order_id, sender_name, sender_email, sender_address,
		 receiver_name, receiver_email, receiver_address,
		 package_details, status, current_address, current_lat, current_lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := s.session.Query(query,
		order.OrderID,
		order.Sender.Name, order.Sender.Email, order.Sender.Address,
		order.Receiver.Name, order.Receiver.Email, order.Receiver.Address,
		order.PackageDetails, order.Status,
		order.Location.Address, order.Location.Lat, order.Location.Lon,
		order.CreatedAt,
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("create order %s: %w", order.OrderID, err)
	}

	for _, loc := range order.History {
		if err := s.appendLocation(ctx, order.OrderID, loc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Orders) appendLocation(ctx context.Context, orderID string, loc model.Location) error {
	recordedAt := loc.Timestamp
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	query := `INSERT INTO order_locations (order_id, recorded_at, address, lat, lon)
		VALUES (?, ?, ?, ?, ?)`
	if err := s.session.Query(query,
		orderID, recordedAt, loc.Address, loc.Lat, loc.Lon,
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("append location %s: %w", orderID, err)
	}
	return nil
}

func (s *Orders) Get(ctx context.Context, orderID string) (model.Order, error) {
	query := `SELECT order_id, sender_name, sender_email, sender_address,
		receiver_name, receiver_email, receiver_address,
		package_details, status, current_address, current_lat, current_lon, created_at
		FROM orders WHERE order_id = ?`

	var o model.Order
	if err := s.session.Query(query, orderID).WithContext(ctx).Scan(
		&o.OrderID,
		&o.Sender.Name, &o.Sender.Email, &o.Sender.Address,
		&o.Receiver.Name, &o.Receiver.Email, &o.Receiver.Address,
		&o.PackageDetails, &o.Status,
		&o.Location.Address, &o.Location.Lat, &o.Location.Lon,
		&o.CreatedAt,
	); err != nil {
		if err == gocql.ErrNotFound {
			return model.Order{}, ErrNotFound
		}
		return model.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}

	history, err := s.history(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	o.History = history
	return o, nil
}

func (s *Orders) history(ctx context.Context, orderID string) ([]model.Location, error) {
	iter := s.session.Query(
		`SELECT recorded_at, address, lat, lon FROM order_locations WHERE order_id = ?`,
		orderID,
	).WithContext(ctx).Iter()

	history := []model.Location{}
	var loc model.Location
	for iter.Scan(&loc.Timestamp, &loc.Address, &loc.Lat, &loc.Lon) {
		history = append(history, loc)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("order history %s: %w", orderID, err)
	}
	return history, nil
}

func (s *Orders) List(ctx context.Context) ([]model.Order, error) {
	query := `SELECT order_id, sender_name, sender_email, sender_address,
		receiver_name, receiver_email, receiver_address,
		package_details, status, current_address, current_lat, current_lon, created_at
		FROM orders`

	iter := s.session.Query(query).WithContext(ctx).Iter()

	orders := []model.Order{}
	var o model.Order
	for iter.Scan(
		&o.OrderID,
		&o.Sender.Name, &o.Sender.Email, &o.Sender.Address,
		&o.Receiver.Name, &o.Receiver.Email, &o.Receiver.Address,
		&o.PackageDetails, &o.Status,
		&o.Location.Address, &o.Location.Lat, &o.Location.Lon,
		&o.CreatedAt,
	) {
		orders = append(orders, o)
		o = model.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Orders) UpdateStatus(ctx context.Context, orderID, status string) (model.Order, error) {
	// Scylla UPDATE is an upsert; check existence first so unknown ids
	// surface as ErrNotFound instead of ghost rows.
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}

	if err := s.session.Query(
		`UPDATE orders SET status = ? WHERE order_id = ?`, status, orderID,
	).WithContext(ctx).Exec(); err != nil {
		return model.Order{}, fmt.Errorf("update status %s: %w", orderID, err)
	}

	order.Status = status
	return order, nil
}

// UpdateLocation replaces the current location and pushes the previous
// one onto the history, matching the tracking page's timeline.
func (s *Orders) UpdateLocation(ctx context.Context, orderID string, loc model.Location) (model.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}

	if order.Location.Address != "" {
		prev := order.Location
		prev.Timestamp = time.Now().UTC()
		if err := s.appendLocation(ctx, orderID, prev); err != nil {
			return model.Order{}, err
		}
		order.History = append(order.History, prev)
	}

	if err := s.session.Query(
		`UPDATE orders SET current_address = ?, current_lat = ?, current_lon = ? WHERE order_id = ?`,
		loc.Address, loc.Lat, loc.Lon, orderID,
	).WithContext(ctx).Exec(); err != nil {
		return model.Order{}, fmt.Errorf("update location %s: %w", orderID, err)
	}

	order.Location = model.Location{Address: loc.Address, Lat: loc.Lat, Lon: loc.Lon}
	return order, nil
}

// CustomerName resolves the shipper's name for the active-conversations
// listing.
func (s *Orders) CustomerName(ctx context.Context, orderID string) (string, error) {
	var name string
	if err := s.session.Query(
		`SELECT sender_name FROM orders WHERE order_id = ?`, orderID,
	).WithContext(ctx).Scan(&name); err != nil {
		if err == gocql.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("customer name %s: %w", orderID, err)
	}
	return name, nil
}
