package domain

import (
	"context"
	"time"
)

// PackageItem references an order line and the quantity of it carried in
// one package.
type PackageItem struct {
	OrderLineID string `json:"orderLineId"`
	ItemID      string `json:"itemId"`
	Quantity    int    `json:"quantity"`
}

// Package groups order-line references moved together. The sum of package
// quantities per order line across all packages of a shipment is the
// quantity being moved in that shipment.
type Package struct {
	Code  string        `json:"code,omitempty"`
	Items []PackageItem `json:"items"`
}

// ShipmentEvent is one append-only entry in a shipment's audit trail.
type ShipmentEvent struct {
	At          time.Time `json:"at"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Actor       string    `json:"actor,omitempty"`
}

type Shipment struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	OrderID        string          `json:"orderId"`
	Status         string          `json:"status"`
	Packages       []Package       `json:"packages"`
	Events         []ShipmentEvent `json:"events"`
	TrackingNumber *string         `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// LineQuantities sums package quantities per order line.
func (s *Shipment) LineQuantities() map[string]int {
	totals := make(map[string]int)
	for _, pkg := range s.Packages {
		for _, it := range pkg.Items {
			totals[it.OrderLineID] += it.Quantity
		}
	}
	return totals
}

// ShipmentStatusPatch is applied atomically with a conditional status update.
type ShipmentStatusPatch struct {
	Status         string
	Event          ShipmentEvent
	TrackingNumber *string
}

// --- Interfaces ---

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *Shipment) error
	GetByID(ctx context.Context, tenantID, id string) (*Shipment, error)
	GetByOrderID(ctx context.Context, tenantID, orderID string) ([]Shipment, error)
	// ConditionalUpdateStatus updates status and appends the event in a
	// single write matched on (id, expectedStatus). Returns
	// ErrPreconditionFailed when the persisted status no longer matches.
	ConditionalUpdateStatus(ctx context.Context, tenantID, id, expectedStatus string, patch ShipmentStatusPatch) (*Shipment, error)
}
