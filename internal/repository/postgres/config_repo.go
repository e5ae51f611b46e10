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

// zoneRepository persists geo-zones. The rule lists (countries, states,
// cities, postal patterns) live in one JSONB document per zone.
type zoneRepository struct {
	db *pgxpool.Pool
}

func NewZoneRepository(db *pgxpool.Pool) domain.ZoneRepository {
	return &zoneRepository{db: db}
}

type zoneRules struct {
	Countries     []string `json:"countries,omitempty"`
	States        []string `json:"states,omitempty"`
	CitiesInclude []string `json:"citiesInclude,omitempty"`
	CitiesExclude []string `json:"citiesExclude,omitempty"`
	PostalInclude []string `json:"postalInclude,omitempty"`
	PostalExclude []string `json:"postalExclude,omitempty"`
}

const zoneColumns = `id, tenant_id, code, name, rules, priority, is_active, created_at, updated_at`

func scanZone(row pgx.Row) (*domain.GeoZone, error) {
	var (
		z     domain.GeoZone
		rules []byte
	)
	err := row.Scan(&z.ID, &z.TenantID, &z.Code, &z.Name, &rules, &z.Priority, &z.IsActive, &z.CreatedAt, &z.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(rules) > 0 {
		var r zoneRules
		if err := json.Unmarshal(rules, &r); err != nil {
			return nil, fmt.Errorf("decode zone rules: %w", err)
		}
		z.Countries = r.Countries
		z.States = r.States
		z.CitiesInclude = r.CitiesInclude
		z.CitiesExclude = r.CitiesExclude
		z.PostalInclude = r.PostalInclude
		z.PostalExclude = r.PostalExclude
	}
	return &z, nil
}

func encodeZoneRules(z *domain.GeoZone) ([]byte, error) {
	return json.Marshal(zoneRules{
		Countries:     z.Countries,
		States:        z.States,
		CitiesInclude: z.CitiesInclude,
		CitiesExclude: z.CitiesExclude,
		PostalInclude: z.PostalInclude,
		PostalExclude: z.PostalExclude,
	})
}

func (r *zoneRepository) listZones(ctx context.Context, tenantID, where string, args ...any) ([]domain.GeoZone, error) {
	q := dbFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+zoneColumns+` FROM geo_zones WHERE tenant_id = $1`+where+
			` ORDER BY priority DESC, created_at ASC`,
		append([]any{tenantID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []domain.GeoZone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *z)
	}
	return zones, rows.Err()
}

func (r *zoneRepository) ListActiveZones(ctx context.Context, tenantID string) ([]domain.GeoZone, error) {
	return r.listZones(ctx, tenantID, ` AND is_active = TRUE`)
}

func (r *zoneRepository) ListZones(ctx context.Context, tenantID string) ([]domain.GeoZone, error) {
	return r.listZones(ctx, tenantID, ``)
}

func (r *zoneRepository) GetZoneByCode(ctx context.Context, tenantID, code string) (*domain.GeoZone, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+zoneColumns+` FROM geo_zones WHERE tenant_id = $1 AND code = $2`,
		tenantID, code)
	return scanZone(row)
}

func (r *zoneRepository) CreateZone(ctx context.Context, zone *domain.GeoZone) error {
	rules, err := encodeZoneRules(zone)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	_, err = q.Exec(ctx,
		`INSERT INTO geo_zones (id, tenant_id, code, name, rules, priority, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		zone.ID, zone.TenantID, zone.Code, zone.Name, rules, zone.Priority, zone.IsActive, zone.CreatedAt, zone.UpdatedAt)
	return err
}

func (r *zoneRepository) UpdateZone(ctx context.Context, zone *domain.GeoZone) error {
	rules, err := encodeZoneRules(zone)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE geo_zones SET name = $3, rules = $4, priority = $5, is_active = $6, updated_at = $7
		 WHERE tenant_id = $1 AND code = $2`,
		zone.TenantID, zone.Code, zone.Name, rules, zone.Priority, zone.IsActive, zone.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *zoneRepository) DeleteZone(ctx context.Context, tenantID, id string) error {
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM geo_zones WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// shippingMethodRepository persists shipping methods; the rate table is a
// JSONB document.
type shippingMethodRepository struct {
	db *pgxpool.Pool
}

func NewShippingMethodRepository(db *pgxpool.Pool) domain.ShippingMethodRepository {
	return &shippingMethodRepository{db: db}
}

const methodColumns = `id, tenant_id, code, name, currency, calc, flat_price, free_over_threshold, rate_table, zones, is_active, created_at, updated_at`

func scanMethod(row pgx.Row) (*domain.ShippingMethod, error) {
	var (
		m     domain.ShippingMethod
		table []byte
		zones []byte
	)
	err := row.Scan(&m.ID, &m.TenantID, &m.Code, &m.Name, &m.Currency, &m.Calc,
		&m.FlatPrice, &m.FreeOverThreshold, &table, &zones, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(table) > 0 {
		if err := json.Unmarshal(table, &m.Table); err != nil {
			return nil, fmt.Errorf("decode rate table: %w", err)
		}
	}
	if len(zones) > 0 {
		if err := json.Unmarshal(zones, &m.Zones); err != nil {
			return nil, fmt.Errorf("decode method zones: %w", err)
		}
	}
	return &m, nil
}

func (r *shippingMethodRepository) GetMethodByCode(ctx context.Context, tenantID, code string) (*domain.ShippingMethod, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+methodColumns+` FROM shipping_methods WHERE tenant_id = $1 AND code = $2`,
		tenantID, code)
	return scanMethod(row)
}

func (r *shippingMethodRepository) ListMethods(ctx context.Context, tenantID string) ([]domain.ShippingMethod, error) {
	q := dbFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+methodColumns+` FROM shipping_methods WHERE tenant_id = $1 ORDER BY created_at ASC`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.ShippingMethod
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *m)
	}
	return methods, rows.Err()
}

func (r *shippingMethodRepository) CreateMethod(ctx context.Context, method *domain.ShippingMethod) error {
	table, err := json.Marshal(method.Table)
	if err != nil {
		return err
	}
	zones, err := json.Marshal(method.Zones)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	_, err = q.Exec(ctx,
		`INSERT INTO shipping_methods (id, tenant_id, code, name, currency, calc, flat_price, free_over_threshold, rate_table, zones, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		method.ID, method.TenantID, method.Code, method.Name, method.Currency, method.Calc,
		method.FlatPrice, method.FreeOverThreshold, table, zones, method.IsActive, method.CreatedAt, method.UpdatedAt)
	return err
}

func (r *shippingMethodRepository) UpdateMethod(ctx context.Context, method *domain.ShippingMethod) error {
	table, err := json.Marshal(method.Table)
	if err != nil {
		return err
	}
	zones, err := json.Marshal(method.Zones)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE shipping_methods
		 SET name = $3, currency = $4, calc = $5, flat_price = $6, free_over_threshold = $7, rate_table = $8, zones = $9, is_active = $10, updated_at = $11
		 WHERE tenant_id = $1 AND code = $2`,
		method.TenantID, method.Code, method.Name, method.Currency, method.Calc,
		method.FlatPrice, method.FreeOverThreshold, table, zones, method.IsActive, method.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shippingMethodRepository) DeleteMethod(ctx context.Context, tenantID, id string) error {
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM shipping_methods WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
