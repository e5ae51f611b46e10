package domain

import (
	"context"
	"time"
)

type OrderFilter struct {
	Page   int
	Limit  int
	Status string
	UserID string
	IsPaid *bool
	Search string
}

// OrderLine is one priced line of an order. Snapshot is the price of record,
// frozen at order-creation time.
type OrderLine struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"itemId"`
	Kind     string          `json:"kind"` // simple, menu
	Quantity int             `json:"quantity"`
	Weight   float64         `json:"weight,omitempty"` // per-unit kg
	Snapshot PricingSnapshot `json:"snapshot"`
	Total    float64         `json:"total"`
}

// TimelineEntry records one accepted order status transition.
type TimelineEntry struct {
	At    time.Time `json:"at"`
	Event string    `json:"event"`
	Actor string    `json:"actor,omitempty"`
	From  string    `json:"from,omitempty"`
	To    string    `json:"to"`
	Note  string    `json:"note,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenantId"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	Lines           []OrderLine     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shippingFee"`
	Total           float64         `json:"total"`
	Currency        string          `json:"currency"`
	ShippingAddress Address         `json:"shippingAddress"`
	ZoneCode        string          `json:"zoneCode,omitempty"`
	ShippingMethod  string          `json:"shippingMethod,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	IsPaid          bool            `json:"isPaid"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
	Timeline        []TimelineEntry `json:"timeline"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderStatusPatch is applied atomically with a conditional status update.
type OrderStatusPatch struct {
	Status      string
	Entry       TimelineEntry
	DeliveredAt *time.Time
}

// --- Interfaces ---

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, tenantID, id string) (*Order, error)
	GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*Order, error)
	GetByUserID(ctx context.Context, tenantID, userID string) ([]Order, error)
	List(ctx context.Context, tenantID string, filter OrderFilter) ([]Order, int64, error)
	// ConditionalUpdateStatus updates status and appends the timeline entry
	// in a single write matched on (id, expectedStatus). Returns
	// ErrPreconditionFailed when the persisted status no longer matches.
	ConditionalUpdateStatus(ctx context.Context, tenantID, id, expectedStatus string, patch OrderStatusPatch) (*Order, error)
	UpdatePaymentState(ctx context.Context, tenantID, id string, isPaid bool) error
	// Delete removes an order. The usecase only permits this for unpaid
	// pending/cancelled orders.
	Delete(ctx context.Context, tenantID, id string) error
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
