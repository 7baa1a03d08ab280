package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Form is the checkout form as typed by the shopper.
type Form struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
	Message string `json:"message"`
}

func (f Form) Normalize() Form {
	return Form{
		Email:   strings.TrimSpace(f.Email),
		Name:    strings.TrimSpace(f.Name),
		Tel:     strings.TrimSpace(f.Tel),
		Address: strings.TrimSpace(f.Address),
		Message: strings.TrimSpace(f.Message),
	}
}

func (f Form) IsZero() bool {
	return f == Form{}
}

type ReceiptItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// Receipt records an order the remote API accepted.
type Receipt struct {
	ID        uuid.UUID     `json:"id"`
	Number    string        `json:"number"`
	OrderID   string        `json:"order_id"`
	Total     float64       `json:"total"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Tel       string        `json:"tel"`
	Address   string        `json:"address"`
	Message   string        `json:"message,omitempty"`
	Items     []ReceiptItem `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
}

// PlacedEvent is published once per accepted order.
type PlacedEvent struct {
	Type       string        `json:"type"`
	OrderID    string        `json:"order_id"`
	Total      float64       `json:"total"`
	Email      string        `json:"email"`
	Items      []ReceiptItem `json:"items"`
	OccurredAt time.Time     `json:"occurred_at"`
}

const EventOrderPlaced = "order.placed"
