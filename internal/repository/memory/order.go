package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type orderRepo struct {
	s *Store
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[key(order.TenantID, order.ID)] = *order
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[key(tenantID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *orderRepo) GetByIdempotencyKey(ctx context.Context, tenantID, idemKey string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.TenantID == tenantID && o.IdempotencyKey == idemKey {
			out := o
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *orderRepo) GetByUserID(ctx context.Context, tenantID, userID string) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var orders []domain.Order
	for _, o := range r.s.orders {
		if o.TenantID == tenantID && o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *orderRepo) List(ctx context.Context, tenantID string, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var orders []domain.Order
	for _, o := range r.s.orders {
		if o.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.IsPaid != nil && o.IsPaid != *filter.IsPaid {
			continue
		}
		if filter.Search != "" && !strings.Contains(o.ID, filter.Search) {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	total := int64(len(orders))

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= len(orders) {
		return nil, total, nil
	}
	orders = orders[offset:]
	if limit < len(orders) {
		orders = orders[:limit]
	}
	return orders, total, nil
}

func (r *orderRepo) ConditionalUpdateStatus(ctx context.Context, tenantID, id, expectedStatus string, patch domain.OrderStatusPatch) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	o, ok := r.s.orders[k]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if o.Status != expectedStatus {
		return nil, domain.ErrPreconditionFailed
	}
	o.Status = patch.Status
	// Copy before appending; handed-out orders must not share the timeline
	// backing array with the stored one.
	timeline := make([]domain.TimelineEntry, len(o.Timeline), len(o.Timeline)+1)
	copy(timeline, o.Timeline)
	o.Timeline = append(timeline, patch.Entry)
	if patch.DeliveredAt != nil {
		o.DeliveredAt = patch.DeliveredAt
	}
	o.UpdatedAt = time.Now()
	r.s.orders[k] = o
	return &o, nil
}

func (r *orderRepo) UpdatePaymentState(ctx context.Context, tenantID, id string, isPaid bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	o, ok := r.s.orders[k]
	if !ok {
		return domain.ErrNotFound
	}
	o.IsPaid = isPaid
	o.UpdatedAt = time.Now()
	r.s.orders[k] = o
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	if _, ok := r.s.orders[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.orders, k)
	return nil
}
