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

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, tenant_id, user_id, status, lines, subtotal, shipping_fee, total, currency,
	shipping_address, zone_code, shipping_method, payment_method, is_paid, idempotency_key,
	timeline, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o        domain.Order
		lines    []byte
		address  []byte
		timeline []byte
	)
	err := row.Scan(
		&o.ID, &o.TenantID, &o.UserID, &o.Status, &lines, &o.Subtotal, &o.ShippingFee, &o.Total, &o.Currency,
		&address, &o.ZoneCode, &o.ShippingMethod, &o.PaymentMethod, &o.IsPaid, &o.IdempotencyKey,
		&timeline, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &o.Lines); err != nil {
			return nil, fmt.Errorf("decode order lines: %w", err)
		}
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode shipping address: %w", err)
		}
	}
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &o.Timeline); err != nil {
			return nil, fmt.Errorf("decode timeline: %w", err)
		}
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return err
	}
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}
	timeline, err := json.Marshal(order.Timeline)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	_, err = q.Exec(ctx,
		`INSERT INTO orders (id, tenant_id, user_id, status, lines, subtotal, shipping_fee, total, currency,
			shipping_address, zone_code, shipping_method, payment_method, is_paid, idempotency_key,
			timeline, delivered_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		order.ID, order.TenantID, order.UserID, order.Status, lines, order.Subtotal, order.ShippingFee,
		order.Total, order.Currency, address, order.ZoneCode, order.ShippingMethod, order.PaymentMethod,
		order.IsPaid, order.IdempotencyKey, timeline, order.DeliveredAt, order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return scanOrder(row)
}

func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Order, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND idempotency_key = $2`, tenantID, key)
	return scanOrder(row)
}

func (r *orderRepository) GetByUserID(ctx context.Context, tenantID, userID string) ([]domain.Order, error) {
	q := dbFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND user_id = $2 ORDER BY created_at DESC`,
		tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) List(ctx context.Context, tenantID string, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	q := dbFrom(ctx, r.db)

	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if filter.IsPaid != nil {
		args = append(args, *filter.IsPaid)
		where += fmt.Sprintf(` AND is_paid = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND id ILIKE $%d`, len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			orderColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ConditionalUpdateStatus is the single-document compare-and-swap: the UPDATE
// matches on the expected status, appends the timeline entry and returns the
// new row. Zero rows means someone else moved the order first.
func (r *orderRepository) ConditionalUpdateStatus(ctx context.Context, tenantID, id, expectedStatus string, patch domain.OrderStatusPatch) (*domain.Order, error) {
	entry, err := json.Marshal(patch.Entry)
	if err != nil {
		return nil, err
	}
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`UPDATE orders
		 SET status = $4,
		     timeline = timeline || $5::jsonb,
		     delivered_at = COALESCE($6, delivered_at),
		     updated_at = NOW()
		 WHERE tenant_id = $1 AND id = $2 AND status = $3
		 RETURNING `+orderColumns,
		tenantID, id, expectedStatus, patch.Status, entry, patch.DeliveredAt)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPreconditionFailed
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) UpdatePaymentState(ctx context.Context, tenantID, id string, isPaid bool) error {
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE orders SET is_paid = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, isPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, tenantID, id string) error {
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
