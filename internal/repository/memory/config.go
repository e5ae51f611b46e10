package memory

import (
	"context"
	"sort"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type zoneRepo struct {
	s *Store
}

func (r *zoneRepo) list(tenantID string, activeOnly bool) []domain.GeoZone {
	var zones []domain.GeoZone
	for _, z := range r.s.zones {
		if z.TenantID != tenantID {
			continue
		}
		if activeOnly && !z.IsActive {
			continue
		}
		zones = append(zones, z)
	}
	sort.SliceStable(zones, func(i, j int) bool {
		if zones[i].Priority != zones[j].Priority {
			return zones[i].Priority > zones[j].Priority
		}
		return zones[i].CreatedAt.Before(zones[j].CreatedAt)
	})
	return zones
}

func (r *zoneRepo) ListActiveZones(ctx context.Context, tenantID string) ([]domain.GeoZone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(tenantID, true), nil
}

func (r *zoneRepo) ListZones(ctx context.Context, tenantID string) ([]domain.GeoZone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(tenantID, false), nil
}

func (r *zoneRepo) GetZoneByCode(ctx context.Context, tenantID, code string) (*domain.GeoZone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, z := range r.s.zones {
		if z.TenantID == tenantID && z.Code == code {
			out := z
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *zoneRepo) CreateZone(ctx context.Context, zone *domain.GeoZone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.zones[key(zone.TenantID, zone.ID)] = *zone
	return nil
}

func (r *zoneRepo) UpdateZone(ctx context.Context, zone *domain.GeoZone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(zone.TenantID, zone.ID)
	if _, ok := r.s.zones[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.zones[k] = *zone
	return nil
}

func (r *zoneRepo) DeleteZone(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	if _, ok := r.s.zones[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.zones, k)
	return nil
}

type methodRepo struct {
	s *Store
}

func (r *methodRepo) GetMethodByCode(ctx context.Context, tenantID, code string) (*domain.ShippingMethod, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.methods {
		if m.TenantID == tenantID && m.Code == code {
			out := m
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *methodRepo) ListMethods(ctx context.Context, tenantID string) ([]domain.ShippingMethod, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var methods []domain.ShippingMethod
	for _, m := range r.s.methods {
		if m.TenantID == tenantID {
			methods = append(methods, m)
		}
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].CreatedAt.Before(methods[j].CreatedAt)
	})
	return methods, nil
}

func (r *methodRepo) CreateMethod(ctx context.Context, method *domain.ShippingMethod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.methods[key(method.TenantID, method.ID)] = *method
	return nil
}

func (r *methodRepo) UpdateMethod(ctx context.Context, method *domain.ShippingMethod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(method.TenantID, method.ID)
	if _, ok := r.s.methods[k]; !ok {
		return domain.ErrNotFound
	}
	r.s.methods[k] = *method
	return nil
}

func (r *methodRepo) DeleteMethod(ctx context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	if _, ok := r.s.methods[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.methods, k)
	return nil
}
