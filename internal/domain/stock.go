package domain

import (
	"context"
	"time"
)

// StockLedgerEntry is one append-only inventory movement record.
type StockLedgerEntry struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenantId"`
	ItemID       string    `json:"itemId"`
	OrderLineID  string    `json:"orderLineId,omitempty"`
	ChangeAmount int       `json:"changeAmount"` // negative = deduction
	Reason       string    `json:"reason"`
	ReferenceID  string    `json:"referenceId"` // shipment or admin actor ID
	CreatedAt    time.Time `json:"createdAt"`
}

type StockRepository interface {
	AppendEntry(ctx context.Context, entry *StockLedgerEntry) error
	ListEntries(ctx context.Context, tenantID, itemID string, limit, offset int) ([]StockLedgerEntry, int64, error)
}
