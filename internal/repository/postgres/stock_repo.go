package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

// stockRepository is the append-only movement ledger. Current stock is the
// sum of entries, never a mutable counter.
type stockRepository struct {
	db *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) domain.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) AppendEntry(ctx context.Context, entry *domain.StockLedgerEntry) error {
	q := dbFrom(ctx, r.db)
	return q.QueryRow(ctx,
		`INSERT INTO stock_ledger (tenant_id, item_id, order_line_id, change_amount, reason, reference_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		entry.TenantID, entry.ItemID, entry.OrderLineID, entry.ChangeAmount,
		entry.Reason, entry.ReferenceID, entry.CreatedAt).Scan(&entry.ID)
}

func (r *stockRepository) ListEntries(ctx context.Context, tenantID, itemID string, limit, offset int) ([]domain.StockLedgerEntry, int64, error) {
	q := dbFrom(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_ledger WHERE tenant_id = $1 AND item_id = $2`,
		tenantID, itemID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, item_id, order_line_id, change_amount, reason, reference_id, created_at
		 FROM stock_ledger
		 WHERE tenant_id = $1 AND item_id = $2
		 ORDER BY id DESC LIMIT $3 OFFSET $4`,
		tenantID, itemID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.StockLedgerEntry
	for rows.Next() {
		var e domain.StockLedgerEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ItemID, &e.OrderLineID, &e.ChangeAmount, &e.Reason, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
