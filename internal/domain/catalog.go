package domain

import (
	"context"
	"time"
)

// PriceEntry is a time-boxed, quantity-tiered price record.
// An entry is applicable at time T only if ActiveFrom <= T <= ActiveTo;
// open-ended bounds always satisfy. Amount must be >= 0.
type PriceEntry struct {
	Kind       string     `json:"kind"` // base, deposit, surcharge, discount
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency,omitempty"`
	ActiveFrom *time.Time `json:"activeFrom,omitempty"`
	ActiveTo   *time.Time `json:"activeTo,omitempty"`
	MinQty     int        `json:"minQty,omitempty"`
}

// Applicable reports whether the entry's activation window contains now.
func (e PriceEntry) Applicable(now time.Time) bool {
	if e.ActiveFrom != nil && now.Before(*e.ActiveFrom) {
		return false
	}
	if e.ActiveTo != nil && now.After(*e.ActiveTo) {
		return false
	}
	return true
}

// Variant is a concrete purchasable configuration of a catalog item.
type Variant struct {
	Code       string            `json:"code"`
	Slug       string            `json:"slug,omitempty"`
	Name       string            `json:"name"`
	Names      map[string]string `json:"names,omitempty"` // localized display names
	SizeLabel  string            `json:"sizeLabel,omitempty"`
	IsDefault  bool              `json:"isDefault"`
	IsActive   bool              `json:"isActive"`
	PriceRefID *string           `json:"priceRefId,omitempty"` // external price record
	Prices     []PriceEntry      `json:"prices,omitempty"`
	Weight     float64           `json:"weight,omitempty"` // kg, for shipping quotes
	SKU        string            `json:"sku,omitempty"`
}

// DisplayName returns the name frozen into receipts and snapshots.
func (v *Variant) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	if v.SizeLabel != "" {
		return v.SizeLabel
	}
	return v.Code
}

// ModifierOption is a selectable add-on inside a modifier group.
type ModifierOption struct {
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	PriceRefID *string      `json:"priceRefId,omitempty"`
	Prices     []PriceEntry `json:"prices,omitempty"`
}

// ModifierGroup is a named set of options with selection-count constraints.
// MaxSelect == 0 means unbounded.
type ModifierGroup struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	MinSelect  int              `json:"minSelect"`
	MaxSelect  int              `json:"maxSelect"`
	IsRequired bool             `json:"isRequired"`
	Options    []ModifierOption `json:"options"`
}

// CatalogItem is a sellable entity scoped to a tenant.
// Invariant: an item with more than one variant and no explicit default
// requires the caller to supply a variant code at pricing time.
type CatalogItem struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	Kind           string          `json:"kind"` // simple, menu
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Variants       []Variant       `json:"variants"`
	ModifierGroups []ModifierGroup `json:"modifierGroups,omitempty"`
	Images         []string        `json:"images,omitempty"`
	IsActive       bool            `json:"isActive"`
	IsPublished    bool            `json:"isPublished"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ExternalPrice is a standalone price record referenced by variants or
// modifier options via PriceRefID.
type ExternalPrice struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenantId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type ItemFilter struct {
	Kind     string
	Query    string
	IsActive *bool
	Limit    int
	Offset   int
}

// --- Interfaces ---

type CatalogRepository interface {
	GetItemByID(ctx context.Context, tenantID, id string) (*CatalogItem, error)
	GetItemBySlug(ctx context.Context, tenantID, slug string) (*CatalogItem, error)
	ListItems(ctx context.Context, tenantID string, filter ItemFilter) ([]CatalogItem, int64, error)
	CreateItem(ctx context.Context, item *CatalogItem) error
	UpdateItem(ctx context.Context, item *CatalogItem) error
	UpdateItemStatus(ctx context.Context, tenantID, id string, isActive bool) error
	DeleteItem(ctx context.Context, tenantID, id string) error
}

type PriceRepository interface {
	GetExternalPrice(ctx context.Context, tenantID, refID string) (*ExternalPrice, error)
}
