package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

// ShippingUsecase resolves shipping methods and quotes costs. Quote is pure
// and safe to call speculatively (quote-before-checkout).
type ShippingUsecase struct {
	methodRepo domain.ShippingMethodRepository
}

func NewShippingUsecase(methodRepo domain.ShippingMethodRepository) *ShippingUsecase {
	return &ShippingUsecase{methodRepo: methodRepo}
}

// ResolveMethod loads an active method and rejects internally inconsistent
// configurations before any quoting happens.
func (u *ShippingUsecase) ResolveMethod(ctx context.Context, tenantID, code string) (*domain.ShippingMethod, error) {
	method, err := u.methodRepo.GetMethodByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if !method.IsActive {
		return nil, fmt.Errorf("%w: shipping method %s", domain.ErrNotFound, code)
	}
	if err := validateMethod(method); err != nil {
		return nil, err
	}
	return method, nil
}

func validateMethod(m *domain.ShippingMethod) error {
	switch m.Calc {
	case domain.CalcFlat:
		return nil
	case domain.CalcTable:
		if len(m.Table) == 0 {
			return fmt.Errorf("%w: table calc with empty table on %s", domain.ErrMethodMisconfigured, m.Code)
		}
	case domain.CalcFreeOver:
		if m.FlatPrice <= 0 || m.FreeOverThreshold <= 0 {
			return fmt.Errorf("%w: free_over requires flat price and threshold on %s", domain.ErrMethodMisconfigured, m.Code)
		}
	default:
		return fmt.Errorf("%w: unknown calc %q on %s", domain.ErrMethodMisconfigured, m.Calc, m.Code)
	}
	return nil
}

// Quote computes the shipping cost for an order context. Inputs are clamped
// to >= 0; an unmatched table falls back to the flat price rather than
// failing.
func (u *ShippingUsecase) Quote(method *domain.ShippingMethod, subtotal, weight float64) float64 {
	if subtotal < 0 {
		subtotal = 0
	}
	if weight < 0 {
		weight = 0
	}

	switch method.Calc {
	case domain.CalcFreeOver:
		if method.FreeOverThreshold > 0 && subtotal >= method.FreeOverThreshold {
			return 0
		}
		return method.FlatPrice
	case domain.CalcTable:
		for _, row := range method.Table {
			if row.Matches(subtotal, weight) {
				return row.Price
			}
		}
		return method.FlatPrice
	default:
		return method.FlatPrice
	}
}

// --- Admin CRUD glue ---

func (u *ShippingUsecase) ListMethods(ctx context.Context, tenantID string) ([]domain.ShippingMethod, error) {
	return u.methodRepo.ListMethods(ctx, tenantID)
}

func (u *ShippingUsecase) CreateMethod(ctx context.Context, method *domain.ShippingMethod) error {
	if method.Code == "" {
		return domain.ErrPreconditionFailed
	}
	if err := validateMethod(method); err != nil {
		return err
	}
	existing, err := u.methodRepo.GetMethodByCode(ctx, method.TenantID, method.Code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrPreconditionFailed
	}
	return u.methodRepo.CreateMethod(ctx, method)
}

func (u *ShippingUsecase) UpdateMethod(ctx context.Context, method *domain.ShippingMethod) error {
	if err := validateMethod(method); err != nil {
		return err
	}
	return u.methodRepo.UpdateMethod(ctx, method)
}

func (u *ShippingUsecase) DeleteMethod(ctx context.Context, tenantID, id string) error {
	return u.methodRepo.DeleteMethod(ctx, tenantID, id)
}
