package model

import "time"

// Party is one side of a shipment.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Location struct {
	Address   string    `json:"address"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Order is a shipment order. OrderID has the form ORD-<6 digits>-<4
// digits> and is the conversation id of the order's chat room.
type Order struct {
	OrderID        string            `json:"orderId"`
	Sender         Party             `json:"sender"`
	Receiver       Party             `json:"receiver"`
	PackageDetails map[string]string `json:"packageDetails"`
	Status         string            `json:"status"`
	Location       Location          `json:"location"`
	History        []Location        `json:"history"`
	CreatedAt      time.Time         `json:"createdAt"`
}

const StatusPending = "Pending"
