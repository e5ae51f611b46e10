package memory

import (
	"context"
	"strings"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type catalogRepo struct {
	s *Store
}

func (r *catalogRepo) GetItemByID(ctx context.Context, tenantID, id string) (*domain.CatalogItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.items[key(tenantID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (r *catalogRepo) GetItemBySlug(ctx context.Context, tenantID, slug string) (*domain.CatalogItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, item := range r.s.items {
		if item.TenantID == tenantID && item.Slug == slug {
			out := item
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *catalogRepo) ListItems(ctx context.Context, tenantID string, filter domain.ItemFilter) ([]domain.CatalogItem, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []domain.CatalogItem
	for _, item := range r.s.items {
		if item.TenantID != tenantID {
			continue
		}
		if filter.Kind != "" && item.Kind != filter.Kind {
			continue
		}
		if filter.IsActive != nil && item.IsActive != *filter.IsActive {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Query)) {
			continue
		}
		matched = append(matched, item)
	}
	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *catalogRepo) CreateItem(ctx context.Context, item *domain.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[key(item.TenantID, item.ID)] = *item
	return nil
}

func (r *catalogRepo) UpdateItem(ctx context.Context, item *domain.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(item.TenantID, item.ID)
	if _, ok := r.s.items[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.items[k] = *item
	return nil
}

func (r *catalogRepo) UpdateItemStatus(ctx context.Context, tenantID, id string, isActive bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	item, ok := r.s.items[k]
	if !ok {
		return domain.ErrNotFound
	}
	item.IsActive = isActive
	r.s.items[k] = item
	return nil
}

func (r *catalogRepo) DeleteItem(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	if _, ok := r.s.items[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, k)
	return nil
}

type priceRepo struct {
	s *Store
}

func (r *priceRepo) GetExternalPrice(ctx context.Context, tenantID, refID string) (*domain.ExternalPrice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.prices[key(tenantID, refID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}
