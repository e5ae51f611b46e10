package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/repository/memory"
)

const testTenant = "tenant-a"

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func newPricingFixture(t *testing.T) (*memory.Store, *PricingUsecase) {
	t.Helper()
	store := memory.NewStore()
	uc := NewPricingUsecase(store.Catalog(), store.Prices(), fixedNow)
	return store, uc
}

func seedItem(t *testing.T, store *memory.Store, item domain.CatalogItem) {
	t.Helper()
	item.TenantID = testTenant
	if !item.IsActive {
		item.IsActive = true
	}
	require.NoError(t, store.Catalog().CreateItem(context.Background(), &item))
}

func simpleItem(id string, prices ...domain.PriceEntry) domain.CatalogItem {
	return domain.CatalogItem{
		ID:   id,
		Kind: domain.ItemKindSimple,
		Slug: id,
		Name: "Item " + id,
		Variants: []domain.Variant{
			{Code: "std", Name: "Standard", IsDefault: true, IsActive: true, Prices: prices},
		},
	}
}

func TestPriceLineSimpleItem(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("water", domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 1.50, Currency: "EUR"}))

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "water", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 1.50, snap.UnitPrice)
	require.Equal(t, "EUR", snap.Currency)
	require.Equal(t, "std", snap.SelectedVariantCode)
	require.Equal(t, 1.50, snap.Components.Base)
	require.Zero(t, snap.Components.Deposit)
}

func TestPriceLineInactiveItem(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	item := simpleItem("gone", domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 2})
	seedItem(t, store, item)
	require.NoError(t, store.Catalog().UpdateItemStatus(context.Background(), testTenant, "gone", false))

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "gone"})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestPriceLineUnknownItem(t *testing.T) {
	t.Parallel()
	_, uc := newPricingFixture(t)
	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "nope"})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestPriceLineVariantRequired(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, domain.CatalogItem{
		ID: "cola", Kind: domain.ItemKindSimple, Slug: "cola", Name: "Cola",
		Variants: []domain.Variant{
			{Code: "small", Name: "0.33l", IsActive: true, Prices: []domain.PriceEntry{{Kind: domain.PriceKindBase, Amount: 2}}},
			{Code: "large", Name: "0.5l", IsActive: true, Prices: []domain.PriceEntry{{Kind: domain.PriceKindBase, Amount: 3}}},
		},
	})

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "cola"})
	require.ErrorIs(t, err, domain.ErrVariantRequired)

	// An explicit code resolves case-insensitively against code, name and
	// size label.
	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "cola", VariantCode: "0.5L", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, "large", snap.SelectedVariantCode)
	require.Equal(t, 3.0, snap.UnitPrice)
}

func TestPriceLineSoleActiveVariant(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, domain.CatalogItem{
		ID: "beer", Kind: domain.ItemKindSimple, Slug: "beer", Name: "Beer",
		Variants: []domain.Variant{
			{Code: "old", IsActive: false},
			{Code: "bottle", Name: "Bottle", IsActive: true, Prices: []domain.PriceEntry{{Kind: domain.PriceKindBase, Amount: 4}}},
		},
	})

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "beer", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, "bottle", snap.SelectedVariantCode)
}

func TestPriceLineNoActiveVariants(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, domain.CatalogItem{
		ID: "dead", Kind: domain.ItemKindSimple, Slug: "dead", Name: "Dead",
		Variants: []domain.Variant{{Code: "only", IsActive: false}},
	})

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "dead"})
	require.ErrorIs(t, err, domain.ErrItemMisconfigured)
}

func TestPriceLineTieBreakMinQtyThenActivation(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	older := testNow.Add(-48 * time.Hour)
	newer := testNow.Add(-1 * time.Hour)
	seedItem(t, store, simpleItem("bulk",
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 10, Currency: "EUR", MinQty: 0, ActiveFrom: timePtr(older)},
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 8, Currency: "EUR", MinQty: 10, ActiveFrom: timePtr(older)},
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 7, Currency: "EUR", MinQty: 10, ActiveFrom: timePtr(newer)},
	))

	// Highest MinQty wins; among equals the latest activation wins.
	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "bulk", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 7.0, snap.UnitPrice)
}

func TestPriceLineIgnoresExpiredEntries(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)
	seedItem(t, store, simpleItem("seasonal",
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 5, Currency: "EUR", ActiveTo: timePtr(past), MinQty: 99},
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 6, Currency: "EUR", ActiveFrom: timePtr(future), MinQty: 99},
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 9, Currency: "EUR"},
	))

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "seasonal", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 9.0, snap.UnitPrice)
}

func TestPriceLineDeterministic(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("stable",
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 3, Currency: "EUR", MinQty: 5},
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 4, Currency: "EUR", MinQty: 5},
	))

	first, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "stable", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "stable", FallbackCurrency: "EUR"})
		require.NoError(t, err)
		require.Equal(t, first.UnitPrice, again.UnitPrice)
	}
}

func TestPriceLineDepositIncluded(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("crate",
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 12, Currency: "EUR"},
		domain.PriceEntry{Kind: domain.PriceKindDeposit, Amount: 3.30, Currency: "EUR"},
	))

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "crate", DepositIncluded: true, FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.InDelta(t, 15.30, snap.UnitPrice, 1e-9)
	require.Equal(t, 3.30, snap.Components.Deposit)

	// Without the flag the deposit stays out of the unit price.
	snap, err = uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "crate", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 12.0, snap.UnitPrice)
}

func TestPriceLineMissingDepositIsZero(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("nodep", domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 5, Currency: "EUR"}))

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "nodep", DepositIncluded: true, FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 5.0, snap.UnitPrice)
}

func TestPriceLineNegativePrice(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("bad", domain.PriceEntry{Kind: domain.PriceKindBase, Amount: -1, Currency: "EUR"}))

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "bad"})
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestPriceLineExternalPricePreferred(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	store.SeedPrice(domain.ExternalPrice{ID: "ref-1", TenantID: testTenant, Amount: 2.20, Currency: "USD"})
	seedItem(t, store, domain.CatalogItem{
		ID: "ext", Kind: domain.ItemKindSimple, Slug: "ext", Name: "Ext",
		Variants: []domain.Variant{{
			Code: "std", IsDefault: true, IsActive: true,
			PriceRefID: strPtr("ref-1"),
			Prices:     []domain.PriceEntry{{Kind: domain.PriceKindBase, Amount: 99, Currency: "USD"}},
		}},
	})

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "ext", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 2.20, snap.UnitPrice)
	// External records carry their own currency regardless of the fallback.
	require.Equal(t, "USD", snap.Currency)
}

func TestPriceLineEmptyFallbackTakesEmbeddedCurrency(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("plain",
		domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 2, Currency: "EUR"},
		domain.PriceEntry{Kind: domain.PriceKindDeposit, Amount: 0.25, Currency: "EUR"},
	))

	// No fallback, no external record: the embedded entries' currency wins
	// instead of mismatching against the empty string.
	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "plain", DepositIncluded: true})
	require.NoError(t, err)
	require.Equal(t, "EUR", snap.Currency)
	require.InDelta(t, 2.25, snap.UnitPrice, 1e-9)
}

func TestPriceLineDanglingRefFallsBack(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, domain.CatalogItem{
		ID: "dangling", Kind: domain.ItemKindSimple, Slug: "dangling", Name: "Dangling",
		Variants: []domain.Variant{{
			Code: "std", IsDefault: true, IsActive: true,
			PriceRefID: strPtr("missing-ref"),
			Prices:     []domain.PriceEntry{{Kind: domain.PriceKindBase, Amount: 7, Currency: "EUR"}},
		}},
	})

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{ItemID: "dangling", FallbackCurrency: "EUR"})
	require.NoError(t, err)
	require.Equal(t, 7.0, snap.UnitPrice)
}

func TestPriceLineCurrencyMismatch(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	store.SeedPrice(domain.ExternalPrice{ID: "usd-base", TenantID: testTenant, Amount: 10, Currency: "USD"})
	seedItem(t, store, domain.CatalogItem{
		ID: "mixed", Kind: domain.ItemKindMenu, Slug: "mixed", Name: "Mixed",
		Variants: []domain.Variant{{Code: "std", IsDefault: true, IsActive: true, PriceRefID: strPtr("usd-base")}},
		ModifierGroups: []domain.ModifierGroup{{
			Code: "extras", Name: "Extras",
			Options: []domain.ModifierOption{{
				Code: "cheese", Name: "Cheese",
				Prices: []domain.PriceEntry{{Kind: domain.PriceKindSurcharge, Amount: 1, Currency: "EUR"}},
			}},
		}},
	})

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{
		ItemID:     "mixed",
		Selections: []domain.ModifierSelection{{GroupCode: "extras", OptionCode: "cheese", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func menuItem() domain.CatalogItem {
	return domain.CatalogItem{
		ID: "burger", Kind: domain.ItemKindMenu, Slug: "burger", Name: "Burger",
		Variants: []domain.Variant{{
			Code: "std", IsDefault: true, IsActive: true,
			Prices: []domain.PriceEntry{{Kind: domain.PriceKindBase, Amount: 8, Currency: "EUR"}},
		}},
		ModifierGroups: []domain.ModifierGroup{
			{
				Code: "size", Name: "Size", IsRequired: true, MinSelect: 1, MaxSelect: 1,
				Options: []domain.ModifierOption{
					{Code: "regular", Name: "Regular"},
					{Code: "xl", Name: "XL", Prices: []domain.PriceEntry{{Kind: domain.PriceKindSurcharge, Amount: 2, Currency: "EUR"}}},
				},
			},
			{
				Code: "toppings", Name: "Toppings", MaxSelect: 2,
				Options: []domain.ModifierOption{
					{Code: "bacon", Name: "Bacon", Prices: []domain.PriceEntry{{Kind: domain.PriceKindSurcharge, Amount: 1.50, Currency: "EUR"}}},
					{Code: "egg", Name: "Egg", Prices: []domain.PriceEntry{{Kind: domain.PriceKindSurcharge, Amount: 1, Currency: "EUR"}}},
				},
			},
		},
	}
}

func TestPriceLineMenuModifiers(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, menuItem())

	snap, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{
		ItemID: "burger",
		Selections: []domain.ModifierSelection{
			{GroupCode: "size", OptionCode: "xl", Quantity: 1},
			{GroupCode: "toppings", OptionCode: "bacon", Quantity: 2},
		},
		FallbackCurrency: "EUR",
	})
	require.NoError(t, err)
	require.Equal(t, 8.0+2.0+3.0, snap.UnitPrice)
	require.Equal(t, 5.0, snap.Components.ModifiersTotal)
	require.Len(t, snap.Components.Modifiers, 2)
	require.Equal(t, 2, snap.Components.Modifiers[1].Quantity)
}

func TestPriceLineMenuValidation(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, menuItem())
	ctx := context.Background()

	// Required group missed, even when other groups are referenced.
	_, err := uc.PriceLine(ctx, testTenant, PriceLineRequest{
		ItemID:     "burger",
		Selections: []domain.ModifierSelection{{GroupCode: "toppings", OptionCode: "bacon"}},
	})
	require.ErrorIs(t, err, domain.ErrModifierRequiredMissed)

	// No selections at all still trips the required group.
	_, err = uc.PriceLine(ctx, testTenant, PriceLineRequest{ItemID: "burger"})
	require.ErrorIs(t, err, domain.ErrModifierRequiredMissed)

	_, err = uc.PriceLine(ctx, testTenant, PriceLineRequest{
		ItemID: "burger",
		Selections: []domain.ModifierSelection{
			{GroupCode: "size", OptionCode: "regular"},
			{GroupCode: "toppings", OptionCode: "bacon", Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrModifierMaxExceeded)

	_, err = uc.PriceLine(ctx, testTenant, PriceLineRequest{
		ItemID:     "burger",
		Selections: []domain.ModifierSelection{{GroupCode: "nope", OptionCode: "x"}},
	})
	require.ErrorIs(t, err, domain.ErrModifierGroupNotFound)

	_, err = uc.PriceLine(ctx, testTenant, PriceLineRequest{
		ItemID:     "burger",
		Selections: []domain.ModifierSelection{{GroupCode: "size", OptionCode: "nope"}},
	})
	require.ErrorIs(t, err, domain.ErrModifierOptionInvalid)
}

func TestPriceLineMinSelectNotMet(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	item := menuItem()
	item.ID = "combo"
	item.Slug = "combo"
	item.ModifierGroups[1].MinSelect = 2
	seedItem(t, store, item)

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{
		ItemID: "combo",
		Selections: []domain.ModifierSelection{
			{GroupCode: "size", OptionCode: "regular"},
			{GroupCode: "toppings", OptionCode: "bacon"},
		},
	})
	require.ErrorIs(t, err, domain.ErrModifierMinNotMet)
}

func TestPriceLineSimpleRejectsSelections(t *testing.T) {
	t.Parallel()
	store, uc := newPricingFixture(t)
	seedItem(t, store, simpleItem("plain", domain.PriceEntry{Kind: domain.PriceKindBase, Amount: 2, Currency: "EUR"}))

	_, err := uc.PriceLine(context.Background(), testTenant, PriceLineRequest{
		ItemID:     "plain",
		Selections: []domain.ModifierSelection{{GroupCode: "g", OptionCode: "o"}},
	})
	require.ErrorIs(t, err, domain.ErrModifierGroupNotFound)
}
