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

// OrderRules carries tenant-independent business defaults.
type OrderRules struct {
	DefaultCurrency string
	DefaultZone     string
}

type OrderUsecase struct {
	orderRepo domain.OrderRepository
	pricing   *PricingUsecase
	zones     *ZoneUsecase
	shipping  *ShippingUsecase
	txManager domain.TransactionManager
	rules     OrderRules
	now       func() time.Time
}

func NewOrderUsecase(orderRepo domain.OrderRepository, pricing *PricingUsecase, zones *ZoneUsecase, shipping *ShippingUsecase, txManager domain.TransactionManager, rules OrderRules, now func() time.Time) *OrderUsecase {
	if now == nil {
		now = time.Now
	}
	return &OrderUsecase{
		orderRepo: orderRepo,
		pricing:   pricing,
		zones:     zones,
		shipping:  shipping,
		txManager: txManager,
		rules:     rules,
		now:       now,
	}
}

type CheckoutLine struct {
	ItemID      string                     `json:"itemId"`
	VariantCode string                     `json:"variantCode,omitempty"`
	Quantity    int                        `json:"quantity"`
	Weight      float64                    `json:"weight,omitempty"`
	Selections  []domain.ModifierSelection `json:"selections,omitempty"`
}

type CheckoutRequest struct {
	IdempotencyKey     string         `json:"idempotencyKey,omitempty"`
	Lines              []CheckoutLine `json:"items"`
	Address            domain.Address `json:"address"`
	ShippingMethodCode string         `json:"shippingMethod"`
	PaymentMethod      string         `json:"paymentMethod"`
	Currency           string         `json:"currency,omitempty"`
	DepositIncluded    bool           `json:"depositIncluded,omitempty"`
}

// Checkout prices every line, resolves the shipping zone and cost, and
// persists the order in status pending. A repeated idempotency key returns
// the prior order unchanged instead of creating a duplicate.
func (u *OrderUsecase) Checkout(ctx context.Context, tenantID, userID string, req CheckoutRequest) (*domain.Order, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domain.ErrPreconditionFailed)
	}

	if req.IdempotencyKey != "" {
		existing, err := u.orderRepo.GetByIdempotencyKey(ctx, tenantID, req.IdempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			logger.Get().Info().Str("order_id", existing.ID).Str("key", req.IdempotencyKey).Msg("Checkout: idempotency key replay, returning existing order")
			return existing, nil
		}
	}

	fallbackCurrency := req.Currency
	if fallbackCurrency == "" {
		fallbackCurrency = u.rules.DefaultCurrency
	}

	// All line pricing completes before anything is persisted.
	var (
		lines       []domain.OrderLine
		subtotal    float64
		totalWeight float64
		currency    string
	)
	for _, line := range req.Lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		snapshot, err := u.pricing.PriceLine(ctx, tenantID, PriceLineRequest{
			ItemID:           line.ItemID,
			VariantCode:      line.VariantCode,
			Selections:       line.Selections,
			DepositIncluded:  req.DepositIncluded,
			FallbackCurrency: fallbackCurrency,
		})
		if err != nil {
			return nil, err
		}
		if currency == "" {
			currency = snapshot.Currency
		} else if snapshot.Currency != currency {
			return nil, fmt.Errorf("%w: line %s priced in %s, order in %s", domain.ErrCurrencyMismatch, line.ItemID, snapshot.Currency, currency)
		}

		lineTotal := snapshot.UnitPrice * float64(qty)
		subtotal += lineTotal
		totalWeight += line.Weight * float64(qty)

		lines = append(lines, domain.OrderLine{
			ID:       utils.GenerateUUID(),
			ItemID:   line.ItemID,
			Kind:     snapshotKind(line.Selections),
			Quantity: qty,
			Weight:   line.Weight,
			Snapshot: *snapshot,
			Total:    lineTotal,
		})
	}

	zoneCode, matched, err := u.zones.ResolveZone(ctx, tenantID, req.Address)
	if err != nil {
		return nil, err
	}
	if !matched {
		zoneCode = u.rules.DefaultZone
	}

	shippingFee := 0.0
	if req.ShippingMethodCode != "" {
		method, err := u.shipping.ResolveMethod(ctx, tenantID, req.ShippingMethodCode)
		if err != nil {
			return nil, err
		}
		if method.Currency != "" && method.Currency != currency {
			return nil, fmt.Errorf("%w: method %s quotes in %s, order in %s", domain.ErrCurrencyMismatch, method.Code, method.Currency, currency)
		}
		shippingFee = u.shipping.Quote(method, subtotal, totalWeight)
	}

	now := u.now()
	order := &domain.Order{
		ID:              utils.GenerateUUID(),
		TenantID:        tenantID,
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Lines:           lines,
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		Total:           subtotal + shippingFee,
		Currency:        currency,
		ShippingAddress: req.Address,
		ZoneCode:        zoneCode,
		ShippingMethod:  req.ShippingMethodCode,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  req.IdempotencyKey,
		Timeline: []domain.TimelineEntry{{
			At:    now,
			Event: "order_created",
			Actor: userID,
			To:    domain.OrderStatusPending,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		return u.orderRepo.Create(txCtx, order)
	}); err != nil {
		return nil, err
	}

	return order, nil
}

func snapshotKind(sels []domain.ModifierSelection) string {
	if len(sels) > 0 {
		return domain.ItemKindMenu
	}
	return domain.ItemKindSimple
}

// TransitionOrder moves an order through its lifecycle graph. The guard set
// is evaluated against the loaded order, but the write itself is conditional
// on the persisted status, so a concurrent winner makes the loser observe
// ErrInvalidTransition rather than silently overwriting.
func (u *OrderUsecase) TransitionOrder(ctx context.Context, tenantID, orderID, requested, actor, note string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status

	if err := orderMachine.Check(from, requested); err != nil {
		return nil, err
	}
	if err := checkOrderGuards(order, requested); err != nil {
		return nil, err
	}

	now := u.now()
	patch := domain.OrderStatusPatch{
		Status: requested,
		Entry: domain.TimelineEntry{
			At:    now,
			Event: "status_changed",
			Actor: actor,
			From:  from,
			To:    requested,
			Note:  note,
		},
	}
	if requested == domain.OrderStatusCompleted {
		deliveredAt := now
		patch.DeliveredAt = &deliveredAt
	}

	updated, err := u.orderRepo.ConditionalUpdateStatus(ctx, tenantID, orderID, from, patch)
	if err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, fmt.Errorf("%w: order %s no longer in %s", domain.ErrInvalidTransition, orderID, from)
		}
		return nil, err
	}
	return updated, nil
}

func checkOrderGuards(order *domain.Order, requested string) error {
	prepay := domain.PaymentRequiresPrepay(order.PaymentMethod)
	switch requested {
	case domain.OrderStatusCompleted:
		if prepay && !order.IsPaid {
			return fmt.Errorf("%w: order %s", domain.ErrCannotCompleteUnpaid, order.ID)
		}
	case domain.OrderStatusCancelled:
		if prepay && order.IsPaid {
			return fmt.Errorf("%w: order %s must go through the refund flow", domain.ErrCannotCancelPaidOrder, order.ID)
		}
	}
	return nil
}

// CancelOrder is the customer-facing pre-packing cancel: beyond the graph it
// forbids cancelling once the order has left pending/preparing.
func (u *OrderUsecase) CancelOrder(ctx context.Context, tenantID, orderID, actor, note string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusPreparing {
		return nil, fmt.Errorf("%w: order %s already %s", domain.ErrInvalidTransition, orderID, order.Status)
	}
	return u.TransitionOrder(ctx, tenantID, orderID, domain.OrderStatusCancelled, actor, note)
}

// MarkPaid flags the order's payment record. The payment record may lag the
// order by a negligible window; callers must not assume atomicity between
// the two writes.
func (u *OrderUsecase) MarkPaid(ctx context.Context, tenantID, orderID string, isPaid bool) error {
	return u.orderRepo.UpdatePaymentState(ctx, tenantID, orderID, isPaid)
}

// DeleteOrder is the hard-delete path, only valid for unpaid orders still in
// pending or cancelled.
func (u *OrderUsecase) DeleteOrder(ctx context.Context, tenantID, orderID string) error {
	order, err := u.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if order.IsPaid || (order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusCancelled) {
		return fmt.Errorf("%w: order %s is %s", domain.ErrPreconditionFailed, orderID, order.Status)
	}
	return u.orderRepo.Delete(ctx, tenantID, orderID)
}

// --- Queries ---

func (u *OrderUsecase) GetOrder(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	return u.orderRepo.GetByID(ctx, tenantID, id)
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, tenantID, userID string) ([]domain.Order, error) {
	return u.orderRepo.GetByUserID(ctx, tenantID, userID)
}

func (u *OrderUsecase) ListOrders(ctx context.Context, tenantID string, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return u.orderRepo.List(ctx, tenantID, filter)
}

func (u *OrderUsecase) GetTimeline(ctx context.Context, tenantID, id string) ([]domain.TimelineEntry, error) {
	order, err := u.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return order.Timeline, nil
}
