package memory

import (
	"context"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type stockRepo struct {
	s *Store
}

func (r *stockRepo) AppendEntry(ctx context.Context, entry *domain.StockLedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextStockID++
	entry.ID = r.s.nextStockID
	r.s.stock = append(r.s.stock, *entry)
	return nil
}

func (r *stockRepo) ListEntries(ctx context.Context, tenantID, itemID string, limit, offset int) ([]domain.StockLedgerEntry, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var entries []domain.StockLedgerEntry
	for i := len(r.s.stock) - 1; i >= 0; i-- {
		e := r.s.stock[i]
		if e.TenantID == tenantID && e.ItemID == itemID {
			entries = append(entries, e)
		}
	}
	total := int64(len(entries))
	if offset > 0 {
		if offset >= len(entries) {
			return nil, total, nil
		}
		entries = entries[offset:]
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, total, nil
}
