package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type shipmentRepo struct {
	s *Store
}

func (r *shipmentRepo) Create(ctx context.Context, shipment *domain.Shipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.shipments[key(shipment.TenantID, shipment.ID)] = *shipment
	return nil
}

func (r *shipmentRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Shipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.shipments[key(tenantID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *shipmentRepo) GetByOrderID(ctx context.Context, tenantID, orderID string) ([]domain.Shipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var shipments []domain.Shipment
	for _, s := range r.s.shipments {
		if s.TenantID == tenantID && s.OrderID == orderID {
			shipments = append(shipments, s)
		}
	}
	sort.Slice(shipments, func(i, j int) bool {
		return shipments[i].CreatedAt.Before(shipments[j].CreatedAt)
	})
	return shipments, nil
}

func (r *shipmentRepo) ConditionalUpdateStatus(ctx context.Context, tenantID, id, expectedStatus string, patch domain.ShipmentStatusPatch) (*domain.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := key(tenantID, id)
	s, ok := r.s.shipments[k]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.Status != expectedStatus {
		return nil, domain.ErrPreconditionFailed
	}
	s.Status = patch.Status
	// Copy before appending; handed-out shipments must not share the events
	// backing array with the stored one.
	events := make([]domain.ShipmentEvent, len(s.Events), len(s.Events)+1)
	copy(events, s.Events)
	s.Events = append(events, patch.Event)
	if patch.TrackingNumber != nil {
		s.TrackingNumber = patch.TrackingNumber
	}
	s.UpdatedAt = time.Now()
	r.s.shipments[k] = s
	return &s, nil
}
