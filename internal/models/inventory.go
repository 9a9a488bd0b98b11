package models

import "time"

type Article struct {
	ID        int64     `json:"id"`
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Condition string    `json:"condition"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementType is "in" or "out".
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Movement records an article leaving or returning, optionally for a customer.
type Movement struct {
	ID         int64        `json:"id"`
	ArticleID  int64        `json:"article_id"`
	CustomerID *int64       `json:"customer_id,omitempty"`
	Type       MovementType `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Note       string       `json:"note,omitempty"`
}
