package domain

import (
	"context"
	"time"
)

// RateRow is one row of a tiered shipping rate table. All bounds are
// optional; a row matches a (subtotal, weight) pair when every present
// bound is satisfied.
type RateRow struct {
	MinWeight   *float64 `json:"minWeight,omitempty"`
	MaxWeight   *float64 `json:"maxWeight,omitempty"`
	MinSubtotal *float64 `json:"minSubtotal,omitempty"`
	MaxSubtotal *float64 `json:"maxSubtotal,omitempty"`
	Price       float64  `json:"price"`
}

// Matches reports whether the row admits the given subtotal and weight.
func (r RateRow) Matches(subtotal, weight float64) bool {
	if r.MinWeight != nil && weight < *r.MinWeight {
		return false
	}
	if r.MaxWeight != nil && weight > *r.MaxWeight {
		return false
	}
	if r.MinSubtotal != nil && subtotal < *r.MinSubtotal {
		return false
	}
	if r.MaxSubtotal != nil && subtotal > *r.MaxSubtotal {
		return false
	}
	return true
}

// ShippingMethod is a named shipping option with a cost strategy.
// Invariants: table calc requires at least one rate row; free_over requires
// both a flat price and a positive threshold.
type ShippingMethod struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenantId"`
	Code              string    `json:"code"`
	Name              string    `json:"name,omitempty"`
	Currency          string    `json:"currency"`
	Calc              string    `json:"calc"` // flat, table, free_over
	FlatPrice         float64   `json:"flatPrice,omitempty"`
	FreeOverThreshold float64   `json:"freeOverThreshold,omitempty"`
	Table             []RateRow `json:"table,omitempty"`
	Zones             []string  `json:"zones,omitempty"` // zone codes this method serves
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ShippingMethodRepository interface {
	GetMethodByCode(ctx context.Context, tenantID, code string) (*ShippingMethod, error)
	ListMethods(ctx context.Context, tenantID string) ([]ShippingMethod, error)
	CreateMethod(ctx context.Context, method *ShippingMethod) error
	UpdateMethod(ctx context.Context, method *ShippingMethod) error
	DeleteMethod(ctx context.Context, tenantID, id string) error
}
