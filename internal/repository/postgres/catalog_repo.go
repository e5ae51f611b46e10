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

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) domain.CatalogRepository {
	return &catalogRepository{db: db}
}

const catalogItemColumns = `id, tenant_id, kind, slug, name, description, variants, modifier_groups, images, is_active, is_published, created_at, updated_at`

func scanCatalogItem(row pgx.Row) (*domain.CatalogItem, error) {
	var (
		item           domain.CatalogItem
		variants       []byte
		modifierGroups []byte
		images         []byte
	)
	err := row.Scan(
		&item.ID, &item.TenantID, &item.Kind, &item.Slug, &item.Name, &item.Description,
		&variants, &modifierGroups, &images,
		&item.IsActive, &item.IsPublished, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &item.Variants); err != nil {
			return nil, fmt.Errorf("decode variants: %w", err)
		}
	}
	if len(modifierGroups) > 0 {
		if err := json.Unmarshal(modifierGroups, &item.ModifierGroups); err != nil {
			return nil, fmt.Errorf("decode modifier groups: %w", err)
		}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &item.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return &item, nil
}

func (r *catalogRepository) GetItemByID(ctx context.Context, tenantID, id string) (*domain.CatalogItem, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+catalogItemColumns+` FROM catalog_items WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	return scanCatalogItem(row)
}

func (r *catalogRepository) GetItemBySlug(ctx context.Context, tenantID, slug string) (*domain.CatalogItem, error) {
	q := dbFrom(ctx, r.db)
	row := q.QueryRow(ctx,
		`SELECT `+catalogItemColumns+` FROM catalog_items WHERE tenant_id = $1 AND slug = $2`,
		tenantID, slug)
	return scanCatalogItem(row)
}

func (r *catalogRepository) ListItems(ctx context.Context, tenantID string, filter domain.ItemFilter) ([]domain.CatalogItem, int64, error) {
	q := dbFrom(ctx, r.db)

	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		where += fmt.Sprintf(` AND kind = $%d`, len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where += fmt.Sprintf(` AND is_active = $%d`, len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_items `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM catalog_items %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			catalogItemColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

func (r *catalogRepository) CreateItem(ctx context.Context, item *domain.CatalogItem) error {
	variants, modifierGroups, images, err := encodeItemDocs(item)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	_, err = q.Exec(ctx,
		`INSERT INTO catalog_items (id, tenant_id, kind, slug, name, description, variants, modifier_groups, images, is_active, is_published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.TenantID, item.Kind, item.Slug, item.Name, item.Description,
		variants, modifierGroups, images,
		item.IsActive, item.IsPublished, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *catalogRepository) UpdateItem(ctx context.Context, item *domain.CatalogItem) error {
	variants, modifierGroups, images, err := encodeItemDocs(item)
	if err != nil {
		return err
	}
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE catalog_items
		 SET kind = $3, slug = $4, name = $5, description = $6, variants = $7, modifier_groups = $8, images = $9, is_active = $10, is_published = $11, updated_at = $12
		 WHERE tenant_id = $1 AND id = $2`,
		item.TenantID, item.ID, item.Kind, item.Slug, item.Name, item.Description,
		variants, modifierGroups, images,
		item.IsActive, item.IsPublished, item.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *catalogRepository) UpdateItemStatus(ctx context.Context, tenantID, id string, isActive bool) error {
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE catalog_items SET is_active = $3, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, isActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteItem(ctx context.Context, tenantID, id string) error {
	q := dbFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM catalog_items WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodeItemDocs(item *domain.CatalogItem) (variants, modifierGroups, images []byte, err error) {
	if variants, err = json.Marshal(item.Variants); err != nil {
		return nil, nil, nil, err
	}
	if modifierGroups, err = json.Marshal(item.ModifierGroups); err != nil {
		return nil, nil, nil, err
	}
	if images, err = json.Marshal(item.Images); err != nil {
		return nil, nil, nil, err
	}
	return variants, modifierGroups, images, nil
}
