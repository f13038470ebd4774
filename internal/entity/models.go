package entity

import (
	"time"
)

// Product is a catalog item. Prices are in whole currency units.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Price       float64 `json:"price" yaml:"price"`
	OldPrice    float64 `json:"old_price,omitempty" yaml:"old_price,omitempty"`
	Category    string  `json:"category" yaml:"category"`
	Bonus       string  `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// DeliveryMethod describes one way an order can be shipped and the
// ordered set of labels the buyer must fill in for it.
type DeliveryMethod struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Details     string   `json:"details" yaml:"details"`
	Fields      []string `json:"fields" yaml:"fields"`
}

// OrderStatus is the delivery status of a committed order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// Order is a committed, persisted order. Immutable after commit except
// for Status and TrackingCode, which the admin flow sets.
type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	UserName       string      `json:"user_name,omitempty"`
	ProductID      string      `json:"product_id"`
	ProductName    string      `json:"product_name"`
	Quantity       int         `json:"quantity"`
	BaseTotal      float64     `json:"base_total"`
	PointsUsed     int64       `json:"points_used"`
	PointsValue    float64     `json:"points_value"`
	FinalPrice     float64     `json:"final_price"`
	DeliveryMethod string      `json:"delivery_method"`
	UserData       string      `json:"user_data"`
	Comment        string      `json:"comment,omitempty"`
	Status         OrderStatus `json:"status"`
	TrackingCode   string      `json:"tracking_code,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// LoyaltyAccount is the per-user points ledger entry. The zero value is
// a valid account for a user who has never ordered.
type LoyaltyAccount struct {
	UserID     string  `json:"user_id"`
	Points     int64   `json:"points"`
	TotalSpent float64 `json:"total_spent"`
	Orders     int     `json:"orders"`
}

// --- Events ---

// Event represents a domain event.
type Event interface {
	EventType() string
}

// OrderCommitted is emitted to the admin channel when a buyer confirms
// an order.
type OrderCommitted struct {
	Order       Order     `json:"order"`
	CommittedAt time.Time `json:"committed_at"`
}

func (e OrderCommitted) EventType() string { return "OrderCommitted" }

// TrackingAssigned is emitted when an operator attaches a tracking code
// to an order.
type TrackingAssigned struct {
	OrderID      string    `json:"order_id"`
	UserID       string    `json:"user_id"`
	TrackingCode string    `json:"tracking_code"`
	AssignedAt   time.Time `json:"assigned_at"`
}

func (e TrackingAssigned) EventType() string { return "TrackingAssigned" }
