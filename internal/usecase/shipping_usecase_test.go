package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/repository/memory"
)

func floatPtr(f float64) *float64 { return &f }

func seedMethod(t *testing.T, store *memory.Store, m domain.ShippingMethod) {
	t.Helper()
	m.TenantID = testTenant
	if m.ID == "" {
		m.ID = "method-" + m.Code
	}
	require.NoError(t, store.Methods().CreateMethod(context.Background(), &m))
}

func TestQuoteFlat(t *testing.T) {
	t.Parallel()
	uc := NewShippingUsecase(nil)
	method := &domain.ShippingMethod{Code: "standard", Calc: domain.CalcFlat, FlatPrice: 4.90}

	require.Equal(t, 4.90, uc.Quote(method, 25, 1.2))
	require.Equal(t, 4.90, uc.Quote(method, 0, 0))
	// Negative inputs clamp to zero rather than corrupting the quote.
	require.Equal(t, 4.90, uc.Quote(method, -10, -3))
}

func TestQuoteFreeOver(t *testing.T) {
	t.Parallel()
	uc := NewShippingUsecase(nil)
	method := &domain.ShippingMethod{Code: "free50", Calc: domain.CalcFreeOver, FlatPrice: 5.90, FreeOverThreshold: 50}

	require.Equal(t, 5.90, uc.Quote(method, 49.99, 0))
	require.Equal(t, 0.0, uc.Quote(method, 50, 0))
	require.Equal(t, 0.0, uc.Quote(method, 120, 0))
}

func TestQuoteTable(t *testing.T) {
	t.Parallel()
	uc := NewShippingUsecase(nil)
	method := &domain.ShippingMethod{
		Code: "weighted", Calc: domain.CalcTable, FlatPrice: 9.90,
		Table: []domain.RateRow{
			{MaxWeight: floatPtr(1), Price: 3.90},
			{MinWeight: floatPtr(1.01), MaxWeight: floatPtr(5), Price: 6.90},
			{MinSubtotal: floatPtr(100), Price: 0},
		},
	}

	require.Equal(t, 3.90, uc.Quote(method, 20, 0.5))
	require.Equal(t, 6.90, uc.Quote(method, 20, 3))
	// First matching row wins.
	require.Equal(t, 3.90, uc.Quote(method, 150, 0.5))
	// No row admits 20 EUR at 8kg; the flat price is the fallback.
	require.Equal(t, 9.90, uc.Quote(method, 20, 8))
}

func TestResolveMethod(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	uc := NewShippingUsecase(store.Methods())
	ctx := context.Background()

	seedMethod(t, store, domain.ShippingMethod{Code: "standard", Calc: domain.CalcFlat, FlatPrice: 4.90, Currency: "EUR", IsActive: true})
	seedMethod(t, store, domain.ShippingMethod{Code: "retired", Calc: domain.CalcFlat, FlatPrice: 2, Currency: "EUR", IsActive: false})
	seedMethod(t, store, domain.ShippingMethod{Code: "broken-table", Calc: domain.CalcTable, Currency: "EUR", IsActive: true})
	seedMethod(t, store, domain.ShippingMethod{Code: "broken-free", Calc: domain.CalcFreeOver, FlatPrice: 0, Currency: "EUR", IsActive: true})
	seedMethod(t, store, domain.ShippingMethod{Code: "weird", Calc: "teleport", Currency: "EUR", IsActive: true})

	method, err := uc.ResolveMethod(ctx, testTenant, "standard")
	require.NoError(t, err)
	require.Equal(t, "standard", method.Code)

	_, err = uc.ResolveMethod(ctx, testTenant, "retired")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ResolveMethod(ctx, testTenant, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ResolveMethod(ctx, testTenant, "broken-table")
	require.ErrorIs(t, err, domain.ErrMethodMisconfigured)

	_, err = uc.ResolveMethod(ctx, testTenant, "broken-free")
	require.ErrorIs(t, err, domain.ErrMethodMisconfigured)

	_, err = uc.ResolveMethod(ctx, testTenant, "weird")
	require.ErrorIs(t, err, domain.ErrMethodMisconfigured)
}

func TestCreateMethodValidates(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	uc := NewShippingUsecase(store.Methods())
	ctx := context.Background()

	good := domain.ShippingMethod{ID: "m1", TenantID: testTenant, Code: "flat", Calc: domain.CalcFlat, Currency: "EUR", IsActive: true}
	require.NoError(t, uc.CreateMethod(ctx, &good))

	dup := domain.ShippingMethod{ID: "m2", TenantID: testTenant, Code: "flat", Calc: domain.CalcFlat}
	require.ErrorIs(t, uc.CreateMethod(ctx, &dup), domain.ErrPreconditionFailed)

	bad := domain.ShippingMethod{ID: "m3", TenantID: testTenant, Code: "tbl", Calc: domain.CalcTable}
	require.ErrorIs(t, uc.CreateMethod(ctx, &bad), domain.ErrMethodMisconfigured)
}
