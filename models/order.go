package models

import (
	"fmt"
	"time"
)

// Order status values. DELIVERED and CANCELLED are terminal.
const (
	StatusActive    = "ACTIVE"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// Order represents a single water-delivery order in the system
type Order struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	OrderID       string     `gorm:"uniqueIndex;not null" json:"orderId"` // generated from creation timestamp
	Items         string     `gorm:"not null" json:"items"`               // JSON-encoded cart contents
	TotalPrice    float64    `json:"totalPrice"`
	Delivery      string     `json:"delivery"` // delivery mode chosen at checkout
	Address       string     `json:"address"`
	PaymentMethod string     `json:"paymentMethod"`
	Date          time.Time  `gorm:"not null" json:"date"` // creation timestamp, drives recency ordering
	Status        string     `gorm:"not null;default:'ACTIVE'" json:"status"`
	Delivered     bool       `gorm:"not null;default:false" json:"delivered"` // must stay consistent with Status=DELIVERED
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`                   // set only when status becomes CANCELLED
	CustomerID    uint       `gorm:"not null;index" json:"-"`
	CreatedAt     time.Time  `json:"-"`
	UpdatedAt     time.Time  `json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// NewOrderID generates an order identifier from a creation timestamp
func NewOrderID(t time.Time) string {
	return fmt.Sprintf("ORD-%d", t.UnixMilli())
}

// IsPending reports whether the order is still awaiting delivery
func (o *Order) IsPending() bool {
	return o.Status == StatusActive && !o.Delivered
}
