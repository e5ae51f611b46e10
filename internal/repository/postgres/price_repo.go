package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type priceRepository struct {
	db *pgxpool.Pool
}

func NewPriceRepository(db *pgxpool.Pool) domain.PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) GetExternalPrice(ctx context.Context, tenantID, refID string) (*domain.ExternalPrice, error) {
	q := dbFrom(ctx, r.db)
	var p domain.ExternalPrice
	err := q.QueryRow(ctx,
		`SELECT id, tenant_id, amount, currency FROM price_records WHERE tenant_id = $1 AND id = $2`,
		tenantID, refID).Scan(&p.ID, &p.TenantID, &p.Amount, &p.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
