package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type shipmentRepository struct {
	db *pgxpool.Pool
}

func NewShipmentRepository(db *pgxpool.Pool) domain.ShipmentRepository {
	return &shipmentRepository{db: db}
}

const shipmentColumns = `id, tenant_id, order_id, status, packages, events, tracking_number, created_at, updated_at`

func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	var (
		s        domain.Shipment
		packages []byte
		events   []byte
	)
	err := row.Scan(&s.ID, &s.TenantID, &s.OrderID, &s.Status, &packages, &events, &s.TrackingNumber, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(packages) > 0 {
		if err := json.Unmarshal(packages, &s.Packages); err != nil {
			return nil, fmt.Errorf("decode packages: %w", err)
		}
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &s.Events); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
	}
	return &s, nil
}

func (r *shipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	packages, err := json.Marshal(shipment.Packages)
	if err != nil {
		return err
	}
	events, err := json.Marshal(shipment.Events)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	_, err = q.Exec(ctx,
		`INSERT INTO shipments (id, tenant_id, order_id, status, packages, events, tracking_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		shipment.ID, shipment.TenantID, shipment.OrderID, shipment.Status,
		packages, events, shipment.TrackingNumber, shipment.CreatedAt, shipment.UpdatedAt)
	return err
}

func (r *shipmentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Shipment, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanShipment(row)
}

func (r *shipmentRepository) GetByOrderID(ctx context.Context, tenantID, orderID string) ([]domain.Shipment, error) {
	q := dbFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE tenant_id = $1 AND order_id = $2 ORDER BY created_at ASC`,
		tenantID, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shipments []domain.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, *s)
	}
	return shipments, rows.Err()
}

func (r *shipmentRepository) ConditionalUpdateStatus(ctx context.Context, tenantID, id, expectedStatus string, patch domain.ShipmentStatusPatch) (*domain.Shipment, error) {
	event, err := json.Marshal(patch.Event)
	if err != nil {
		return nil, err
	}
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`UPDATE shipments
		 SET status = $4,
		     events = events || $5::jsonb,
		     tracking_number = COALESCE($6, tracking_number),
		     updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2 AND status = $3
		 RETURNING `+shipmentColumns,
		tenantID, id, expectedStatus, patch.Status, event, patch.TrackingNumber)
	shipment, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, err
	}
	return shipment, nil
}
