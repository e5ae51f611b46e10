package domain

import (
	"context"
	"time"
)

// GeoZone is a shipping region defined by country/state/city/postal rules.
// Code is unique per tenant and immutable after creation. An empty Countries
// list makes the zone global.
type GeoZone struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	Code          string    `json:"code"`
	Name          string    `json:"name,omitempty"`
	Countries     []string  `json:"countries,omitempty"`
	States        []string  `json:"states,omitempty"`
	CitiesInclude []string  `json:"citiesInclude,omitempty"`
	CitiesExclude []string  `json:"citiesExclude,omitempty"`
	PostalInclude []string  `json:"postalInclude,omitempty"`
	PostalExclude []string  `json:"postalExclude,omitempty"`
	Priority      int       `json:"priority"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ZoneRepository interface {
	// ListActiveZones returns active zones ordered by priority descending,
	// then creation ascending.
	ListActiveZones(ctx context.Context, tenantID string) ([]GeoZone, error)
	ListZones(ctx context.Context, tenantID string) ([]GeoZone, error)
	GetZoneByCode(ctx context.Context, tenantID, code string) (*GeoZone, error)
	CreateZone(ctx context.Context, zone *GeoZone) error
	UpdateZone(ctx context.Context, zone *GeoZone) error
	DeleteZone(ctx context.Context, tenantID, id string) error
}
