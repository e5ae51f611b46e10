package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

// PricingUsecase resolves the price of one catalog line into an immutable
// snapshot. It never mutates state; "now" is injected so activation-window
// checks are pinnable in tests.
type PricingUsecase struct {
	catalogRepo domain.CatalogRepository
	priceRepo   domain.PriceRepository
	now         func() time.Time
}

func NewPricingUsecase(catalogRepo domain.CatalogRepository, priceRepo domain.PriceRepository, now func() time.Time) *PricingUsecase {
	if now == nil {
		now = time.Now
	}
	return &PricingUsecase{
		catalogRepo: catalogRepo,
		priceRepo:   priceRepo,
		now:         now,
	}
}

type PriceLineRequest struct {
	ItemID           string                     `json:"itemId"`
	VariantCode      string                     `json:"variantCode,omitempty"`
	Selections       []domain.ModifierSelection `json:"selections,omitempty"`
	DepositIncluded  bool                       `json:"depositIncluded,omitempty"`
	FallbackCurrency string                     `json:"fallbackCurrency,omitempty"`
}

// amountResolution is one resolved price component. external marks a value
// taken from a referenced price record rather than an embedded entry.
type amountResolution struct {
	amount   float64
	currency string
	external bool
	found    bool
}

// PriceLine resolves variant, validates modifier selections, sums
// base + deposit + modifiers and returns the snapshot. No partial snapshot
// is ever returned on error.
func (u *PricingUsecase) PriceLine(ctx context.Context, tenantID string, req PriceLineRequest) (*domain.PricingSnapshot, error) {
	now := u.now()

	item, err := u.catalogRepo.GetItemByID(ctx, tenantID, req.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, req.ItemID)
		}
		return nil, err
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: %s is inactive", domain.ErrItemNotFound, item.ID)
	}

	variant, err := resolveVariant(item, req.VariantCode)
	if err != nil {
		return nil, err
	}

	// Simple products take the direct price path: no modifier machinery.
	if item.Kind != domain.ItemKindMenu && len(req.Selections) > 0 {
		return nil, fmt.Errorf("%w: item %s does not accept modifier selections", domain.ErrModifierGroupNotFound, item.ID)
	}
	if item.Kind == domain.ItemKindMenu {
		if err := validateSelections(item, req.Selections); err != nil {
			return nil, err
		}
	}

	var resolutions []amountResolution

	base, err := u.resolveAmount(ctx, tenantID, variant.PriceRefID, variant.Prices, domain.PriceKindBase, now)
	if err != nil {
		return nil, err
	}
	resolutions = append(resolutions, base)

	var deposit amountResolution
	if req.DepositIncluded {
		// Absent deposit entries yield 0, not an error.
		deposit, err = u.resolveAmount(ctx, tenantID, variant.PriceRefID, variant.Prices, domain.PriceKindDeposit, now)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, deposit)
	}

	var charges []domain.ModifierCharge
	modifiersTotal := 0.0
	for _, sel := range req.Selections {
		opt := findOption(item, sel.GroupCode, sel.OptionCode)
		if opt == nil {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrModifierOptionInvalid, sel.GroupCode, sel.OptionCode)
		}
		res, err := u.resolveAmount(ctx, tenantID, opt.PriceRefID, opt.Prices, domain.PriceKindSurcharge, now)
		if err != nil {
			return nil, err
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		total := res.amount * float64(qty)
		modifiersTotal += total
		charges = append(charges, domain.ModifierCharge{
			GroupCode:  sel.GroupCode,
			OptionCode: sel.OptionCode,
			Name:       opt.Name,
			Quantity:   qty,
			UnitAmount: res.amount,
			Total:      total,
		})
		resolutions = append(resolutions, res)
	}

	// Currency comes from the first component resolved through an external
	// price record, else the caller's fallback, else the first embedded
	// component that carries one. Mixed currencies across components are an
	// invariant violation, never coerced.
	currency := req.FallbackCurrency
	for _, r := range resolutions {
		if r.found && r.external && r.currency != "" {
			currency = r.currency
			break
		}
	}
	if currency == "" {
		for _, r := range resolutions {
			if r.found && r.currency != "" {
				currency = r.currency
				break
			}
		}
	}
	for _, r := range resolutions {
		if r.found && r.currency != "" && !strings.EqualFold(r.currency, currency) {
			return nil, fmt.Errorf("%w: %s vs %s on item %s", domain.ErrCurrencyMismatch, r.currency, currency, item.ID)
		}
	}

	unitPrice := base.amount + deposit.amount + modifiersTotal
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: computed %.2f for item %s", domain.ErrNegativePrice, unitPrice, item.ID)
	}

	return &domain.PricingSnapshot{
		UnitPrice: unitPrice,
		Currency:  currency,
		Components: domain.PriceComponents{
			Base:           base.amount,
			Deposit:        deposit.amount,
			ModifiersTotal: modifiersTotal,
			Modifiers:      charges,
		},
		SelectedVariantCode: variant.Code,
		DisplayName:         item.Name,
		DisplayVariantName:  variant.DisplayName(),
	}, nil
}

// resolveAmount prefers a referenced external price record; otherwise it
// selects the applicable embedded entry of the requested kind. A missing
// entry resolves to zero with found=false.
func (u *PricingUsecase) resolveAmount(ctx context.Context, tenantID string, refID *string, entries []domain.PriceEntry, kind string, now time.Time) (amountResolution, error) {
	if refID != nil && *refID != "" {
		record, err := u.priceRepo.GetExternalPrice(ctx, tenantID, *refID)
		if err == nil {
			if record.Amount < 0 {
				return amountResolution{}, fmt.Errorf("%w: price record %s", domain.ErrNegativePrice, record.ID)
			}
			return amountResolution{amount: record.Amount, currency: record.Currency, external: true, found: true}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return amountResolution{}, err
		}
		// Dangling reference: fall back to embedded entries.
	}

	entry, ok := selectEntry(entries, kind, now)
	if !ok {
		return amountResolution{}, nil
	}
	if entry.Amount < 0 {
		return amountResolution{}, fmt.Errorf("%w: embedded %s entry", domain.ErrNegativePrice, kind)
	}
	return amountResolution{amount: entry.Amount, currency: entry.Currency, found: true}, nil
}

// selectEntry picks the applicable entry of the given kind, breaking ties by
// highest MinQty then most recent activation date.
func selectEntry(entries []domain.PriceEntry, kind string, now time.Time) (domain.PriceEntry, bool) {
	var best domain.PriceEntry
	found := false
	for _, e := range entries {
		if e.Kind != kind || !e.Applicable(now) {
			continue
		}
		if !found || betterEntry(e, best) {
			best = e
			found = true
		}
	}
	return best, found
}

func betterEntry(a, b domain.PriceEntry) bool {
	if a.MinQty != b.MinQty {
		return a.MinQty > b.MinQty
	}
	return entryActivation(a).After(entryActivation(b))
}

func entryActivation(e domain.PriceEntry) time.Time {
	if e.ActiveFrom == nil {
		return time.Time{}
	}
	return *e.ActiveFrom
}

// resolveVariant resolves in order: tolerant explicit-code match, default
// flag, sole active variant. Two or more variants with no match and no
// default require the caller to choose.
func resolveVariant(item *domain.CatalogItem, code string) (*domain.Variant, error) {
	if code != "" {
		for i := range item.Variants {
			v := &item.Variants[i]
			if v.IsActive && variantMatches(v, code) {
				return v, nil
			}
		}
	}

	var def, sole *domain.Variant
	count := 0
	for i := range item.Variants {
		v := &item.Variants[i]
		if !v.IsActive {
			continue
		}
		count++
		sole = v
		if v.IsDefault && def == nil {
			def = v
		}
	}
	if def != nil {
		return def, nil
	}
	if count == 1 {
		return sole, nil
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: item %s has no active variants", domain.ErrItemMisconfigured, item.ID)
	}
	return nil, fmt.Errorf("%w: item %s has %d variants and no default", domain.ErrVariantRequired, item.ID, count)
}

// variantMatches is tolerant: code, slug, display name, size label or any
// localized name.
func variantMatches(v *domain.Variant, code string) bool {
	if strings.EqualFold(v.Code, code) {
		return true
	}
	if v.Slug != "" && strings.EqualFold(v.Slug, code) {
		return true
	}
	if v.Name != "" && strings.EqualFold(v.Name, code) {
		return true
	}
	if v.SizeLabel != "" && strings.EqualFold(v.SizeLabel, code) {
		return true
	}
	for _, name := range v.Names {
		if strings.EqualFold(name, code) {
			return true
		}
	}
	return false
}

// validateSelections checks every modifier group on the item, not just the
// referenced ones.
func validateSelections(item *domain.CatalogItem, sels []domain.ModifierSelection) error {
	groups := make(map[string]*domain.ModifierGroup, len(item.ModifierGroups))
	for i := range item.ModifierGroups {
		groups[item.ModifierGroups[i].Code] = &item.ModifierGroups[i]
	}

	counts := make(map[string]int)
	for _, sel := range sels {
		g, ok := groups[sel.GroupCode]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrModifierGroupNotFound, sel.GroupCode)
		}
		if findOption(item, sel.GroupCode, sel.OptionCode) == nil {
			return fmt.Errorf("%w: %s in group %s", domain.ErrModifierOptionInvalid, sel.OptionCode, sel.GroupCode)
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		counts[g.Code] += qty
	}

	for i := range item.ModifierGroups {
		g := &item.ModifierGroups[i]
		count := counts[g.Code]
		if g.IsRequired && count < 1 {
			return fmt.Errorf("%w: group %s", domain.ErrModifierRequiredMissed, g.Code)
		}
		if count < g.MinSelect {
			return fmt.Errorf("%w: group %s requires at least %d, got %d", domain.ErrModifierMinNotMet, g.Code, g.MinSelect, count)
		}
		if g.MaxSelect > 0 && count > g.MaxSelect {
			return fmt.Errorf("%w: group %s allows at most %d, got %d", domain.ErrModifierMaxExceeded, g.Code, g.MaxSelect, count)
		}
	}
	return nil
}

func findOption(item *domain.CatalogItem, groupCode, optionCode string) *domain.ModifierOption {
	for i := range item.ModifierGroups {
		g := &item.ModifierGroups[i]
		if g.Code != groupCode {
			continue
		}
		for j := range g.Options {
			if g.Options[j].Code == optionCode {
				return &g.Options[j]
			}
		}
	}
	return nil
}
