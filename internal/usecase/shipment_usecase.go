package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/logger"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

type ShipmentUsecase struct {
	shipmentRepo domain.ShipmentRepository
	orderRepo    domain.OrderRepository
	stockRepo    domain.StockRepository
	txManager    domain.TransactionManager
	now          func() time.Time
}

func NewShipmentUsecase(shipmentRepo domain.ShipmentRepository, orderRepo domain.OrderRepository, stockRepo domain.StockRepository, txManager domain.TransactionManager, now func() time.Time) *ShipmentUsecase {
	if now == nil {
		now = time.Now
	}
	return &ShipmentUsecase{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		stockRepo:    stockRepo,
		txManager:    txManager,
		now:          now,
	}
}

// postShipped holds every state a shipment can only reach after physical
// dispatch. Asking to ship a shipment already in one of these is treated as
// a replay, not a conflict.
var postShipped = map[string]bool{
	domain.ShipmentStatusShipped:        true,
	domain.ShipmentStatusInTransit:      true,
	domain.ShipmentStatusOutForDelivery: true,
	domain.ShipmentStatusDelivered:      true,
	domain.ShipmentStatusReturned:       true,
}

type CreateShipmentRequest struct {
	OrderID  string           `json:"orderId"`
	Packages []domain.Package `json:"packages"`
}

// CreateShipment opens a shipment for an order that is being prepared.
// Package contents are validated against the order's lines; a package may
// carry at most the ordered quantity of each line.
func (u *ShipmentUsecase) CreateShipment(ctx context.Context, tenantID string, req CreateShipmentRequest) (*domain.Shipment, error) {
	order, err := u.orderRepo.GetByID(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPreparing {
		return nil, fmt.Errorf("%w: order %s is %s, shipments open from preparing", domain.ErrPreconditionFailed, order.ID, order.Status)
	}
	if len(req.Packages) == 0 {
		return nil, fmt.Errorf("%w: shipment has no packages", domain.ErrPreconditionFailed)
	}

	ordered := make(map[string]int, len(order.Lines))
	for _, line := range order.Lines {
		ordered[line.ID] = line.Quantity
	}
	shipment := &domain.Shipment{
		ID:       utils.GenerateUUID(),
		TenantID: tenantID,
		OrderID:  order.ID,
		Status:   domain.ShipmentStatusPending,
		Packages: req.Packages,
	}
	for lineID, qty := range shipment.LineQuantities() {
		max, ok := ordered[lineID]
		if !ok {
			return nil, fmt.Errorf("%w: line %s not on order %s", domain.ErrPreconditionFailed, lineID, order.ID)
		}
		if qty < 1 || qty > max {
			return nil, fmt.Errorf("%w: line %s quantity %d out of range", domain.ErrPreconditionFailed, lineID, qty)
		}
	}

	now := u.now()
	shipment.Events = []domain.ShipmentEvent{{
		At:   now,
		Code: "shipment_created",
	}}
	shipment.CreatedAt = now
	shipment.UpdatedAt = now

	if err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		return u.shipmentRepo.Create(txCtx, shipment)
	}); err != nil {
		return nil, err
	}
	return shipment, nil
}

type TransitionShipmentRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"trackingNumber,omitempty"`
	Description    string  `json:"description,omitempty"`
	Location       string  `json:"location,omitempty"`
	Actor          string  `json:"-"`
}

// TransitionShipment advances a shipment through its lifecycle. Entering
// shipped deducts stock for every order line exactly once, inside the same
// transaction as the status write: a lost conditional update means no
// deduction, and a replayed "shipped" on an already-dispatched shipment is a
// no-op success.
func (u *ShipmentUsecase) TransitionShipment(ctx context.Context, tenantID, shipmentID string, req TransitionShipmentRequest) (*domain.Shipment, error) {
	shipment, err := u.shipmentRepo.GetByID(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	from := shipment.Status

	if req.Status == domain.ShipmentStatusShipped && postShipped[from] {
		logger.Get().Info().Str("shipment_id", shipmentID).Str("status", from).Msg("TransitionShipment: shipped replay ignored")
		return shipment, nil
	}

	if err := shipmentMachine.Check(from, req.Status); err != nil {
		return nil, err
	}

	patch := domain.ShipmentStatusPatch{
		Status: req.Status,
		Event: domain.ShipmentEvent{
			At:          u.now(),
			Code:        "status_" + req.Status,
			Description: req.Description,
			Location:    req.Location,
			Actor:       req.Actor,
		},
		TrackingNumber: req.TrackingNumber,
	}

	var updated *domain.Shipment
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		updated, err = u.shipmentRepo.ConditionalUpdateStatus(txCtx, tenantID, shipmentID, from, patch)
		if err != nil {
			if errors.Is(err, domain.ErrPreconditionFailed) {
				return fmt.Errorf("%w: shipment %s no longer in %s", domain.ErrInvalidTransition, shipmentID, from)
			}
			return err
		}
		if req.Status == domain.ShipmentStatusShipped {
			return u.deductStock(txCtx, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// deductStock appends one negative ledger entry per order line, summing that
// line's quantity across all packages of the shipment. Running inside the
// transition's transaction ties the deduction to the winning status write.
func (u *ShipmentUsecase) deductStock(ctx context.Context, shipment *domain.Shipment) error {
	totals := shipment.LineQuantities()
	items := make(map[string]string, len(totals))
	var lineIDs []string
	for _, pkg := range shipment.Packages {
		for _, it := range pkg.Items {
			if _, seen := items[it.OrderLineID]; !seen {
				items[it.OrderLineID] = it.ItemID
				lineIDs = append(lineIDs, it.OrderLineID)
			}
		}
	}

	for _, lineID := range lineIDs {
		qty := totals[lineID]
		if qty < 1 {
			continue
		}
		entry := &domain.StockLedgerEntry{
			TenantID:     shipment.TenantID,
			ItemID:       items[lineID],
			OrderLineID:  lineID,
			ChangeAmount: -qty,
			Reason:       domain.StockReasonShipmentDispatched,
			ReferenceID:  shipment.ID,
			CreatedAt:    u.now(),
		}
		if err := u.stockRepo.AppendEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// AddTrackingEvent appends a carrier event without changing status.
func (u *ShipmentUsecase) AddTrackingEvent(ctx context.Context, tenantID, shipmentID string, event domain.ShipmentEvent) (*domain.Shipment, error) {
	shipment, err := u.shipmentRepo.GetByID(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	if event.At.IsZero() {
		event.At = u.now()
	}
	patch := domain.ShipmentStatusPatch{
		Status: shipment.Status,
		Event:  event,
	}
	updated, err := u.shipmentRepo.ConditionalUpdateStatus(ctx, tenantID, shipmentID, shipment.Status, patch)
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, fmt.Errorf("%w: shipment %s changed status concurrently", domain.ErrInvalidTransition, shipmentID)
		}
		return nil, err
	}
	return updated, nil
}

func (u *ShipmentUsecase) GetShipment(ctx context.Context, tenantID, id string) (*domain.Shipment, error) {
	return u.shipmentRepo.GetByID(ctx, tenantID, id)
}

func (u *ShipmentUsecase) GetOrderShipments(ctx context.Context, tenantID, orderID string) ([]domain.Shipment, error) {
	return u.shipmentRepo.GetByOrderID(ctx, tenantID, orderID)
}

// Tracking returns the event trail for a shipment, oldest first.
func (u *ShipmentUsecase) Tracking(ctx context.Context, tenantID, id string) ([]domain.ShipmentEvent, error) {
	shipment, err := u.shipmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return shipment.Events, nil
}
