package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/cache"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

type CatalogUsecase struct {
	repo     domain.CatalogRepository
	cache    cache.CacheService
	cacheTTL time.Duration
	now      func() time.Time
}

func NewCatalogUsecase(repo domain.CatalogRepository, cacheService cache.CacheService, cacheTTL time.Duration, now func() time.Time) *CatalogUsecase {
	if now == nil {
		now = time.Now
	}
	return &CatalogUsecase{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
		now:      now,
	}
}

func itemSlugKey(tenantID, slug string) string {
	return fmt.Sprintf("item:%s:slug:%s", tenantID, slug)
}

func (uc *CatalogUsecase) CreateItem(ctx context.Context, item *domain.CatalogItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = utils.GenerateUUID()
	}
	if item.Slug == "" {
		item.Slug = utils.GenerateSlug(item.Name)
	}
	now := uc.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.IsActive = true

	return uc.repo.CreateItem(ctx, item)
}

func (uc *CatalogUsecase) UpdateItem(ctx context.Context, item *domain.CatalogItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	item.UpdatedAt = uc.now()
	uc.cache.Delete(itemSlugKey(item.TenantID, item.Slug))
	return uc.repo.UpdateItem(ctx, item)
}

func (uc *CatalogUsecase) UpdateItemStatus(ctx context.Context, tenantID, id string, isActive bool) error {
	item, err := uc.repo.GetItemByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	uc.cache.Delete(itemSlugKey(tenantID, item.Slug))
	return uc.repo.UpdateItemStatus(ctx, tenantID, id, isActive)
}

func (uc *CatalogUsecase) DeleteItem(ctx context.Context, tenantID, id string) error {
	item, err := uc.repo.GetItemByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	uc.cache.Delete(itemSlugKey(tenantID, item.Slug))
	return uc.repo.DeleteItem(ctx, tenantID, id)
}

func (uc *CatalogUsecase) GetItem(ctx context.Context, tenantID, id string) (*domain.CatalogItem, error) {
	return uc.repo.GetItemByID(ctx, tenantID, id)
}

// GetItemBySlug is the public storefront read path, cached per tenant+slug.
func (uc *CatalogUsecase) GetItemBySlug(ctx context.Context, tenantID, slug string) (*domain.CatalogItem, error) {
	key := itemSlugKey(tenantID, slug)
	if val, found := uc.cache.Get(key); found {
		// The memory backend returns the stored pointer, the Redis backend
		// returns the JSON payload.
		switch v := val.(type) {
		case *domain.CatalogItem:
			return v, nil
		case []byte:
			var item domain.CatalogItem
			if err := json.Unmarshal(v, &item); err == nil {
				return &item, nil
			}
		}
	}

	item, err := uc.repo.GetItemBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(key, item, uc.cacheTTL)
	return item, nil
}

func (uc *CatalogUsecase) ListItems(ctx context.Context, tenantID string, filter domain.ItemFilter) ([]domain.CatalogItem, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.repo.ListItems(ctx, tenantID, filter)
}

// AttachImage appends an already-uploaded media URL to the item.
func (uc *CatalogUsecase) AttachImage(ctx context.Context, tenantID, id, url string) (*domain.CatalogItem, error) {
	item, err := uc.repo.GetItemByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	item.Images = append(item.Images, url)
	item.UpdatedAt = uc.now()
	uc.cache.Delete(itemSlugKey(tenantID, item.Slug))
	if err := uc.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// validateItem enforces structural invariants persisted items must satisfy.
// Pricing-time failures (no active variant, missing default) stay the
// pricer's concern; this guards what admins can save at all.
func validateItem(item *domain.CatalogItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: item name required", domain.ErrPreconditionFailed)
	}
	switch item.Kind {
	case domain.ItemKindSimple, domain.ItemKindMenu:
	default:
		return fmt.Errorf("%w: unknown item kind %q", domain.ErrPreconditionFailed, item.Kind)
	}

	defaults := 0
	seen := make(map[string]bool, len(item.Variants))
	for _, v := range item.Variants {
		if v.Code == "" {
			return fmt.Errorf("%w: variant code required", domain.ErrPreconditionFailed)
		}
		if seen[v.Code] {
			return fmt.Errorf("%w: duplicate variant code %s", domain.ErrPreconditionFailed, v.Code)
		}
		seen[v.Code] = true
		if v.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: multiple default variants", domain.ErrPreconditionFailed)
	}

	if item.Kind == domain.ItemKindSimple && len(item.ModifierGroups) > 0 {
		return fmt.Errorf("%w: simple items cannot carry modifier groups", domain.ErrPreconditionFailed)
	}
	for _, g := range item.ModifierGroups {
		if g.Code == "" {
			return fmt.Errorf("%w: modifier group code required", domain.ErrPreconditionFailed)
		}
		if g.MaxSelect > 0 && g.MinSelect > g.MaxSelect {
			return fmt.Errorf("%w: group %s min %d exceeds max %d", domain.ErrPreconditionFailed, g.Code, g.MinSelect, g.MaxSelect)
		}
		if len(g.Options) == 0 {
			return fmt.Errorf("%w: group %s has no options", domain.ErrPreconditionFailed, g.Code)
		}
	}
	return nil
}
