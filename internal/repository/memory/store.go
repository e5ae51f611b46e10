// Package memory holds mutex-guarded in-memory implementations of the
// repository interfaces. They back the unit tests and the local dev mode
// where no Postgres is available.
package memory

import (
	"context"
	"sync"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

type Store struct {
	mu          sync.RWMutex
	items       map[string]domain.CatalogItem
	prices      map[string]domain.ExternalPrice
	zones       map[string]domain.GeoZone
	methods     map[string]domain.ShippingMethod
	orders      map[string]domain.Order
	shipments   map[string]domain.Shipment
	stock       []domain.StockLedgerEntry
	nextStockID int64
}

func NewStore() *Store {
	return &Store{
		items:     make(map[string]domain.CatalogItem),
		prices:    make(map[string]domain.ExternalPrice),
		zones:     make(map[string]domain.GeoZone),
		methods:   make(map[string]domain.ShippingMethod),
		orders:    make(map[string]domain.Order),
		shipments: make(map[string]domain.Shipment),
	}
}

func key(tenantID, id string) string {
	return tenantID + "/" + id
}

func (s *Store) Catalog() domain.CatalogRepository        { return &catalogRepo{s} }
func (s *Store) Prices() domain.PriceRepository           { return &priceRepo{s} }
func (s *Store) Zones() domain.ZoneRepository             { return &zoneRepo{s} }
func (s *Store) Methods() domain.ShippingMethodRepository { return &methodRepo{s} }
func (s *Store) Orders() domain.OrderRepository           { return &orderRepo{s} }
func (s *Store) Shipments() domain.ShipmentRepository     { return &shipmentRepo{s} }
func (s *Store) Stock() domain.StockRepository            { return &stockRepo{s} }
func (s *Store) Tx() domain.TransactionManager            { return txManager{} }

// SeedPrice inserts an external price record, for tests and dev fixtures.
func (s *Store) SeedPrice(p domain.ExternalPrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[key(p.TenantID, p.ID)] = p
}

// txManager satisfies domain.TransactionManager without transactional
// semantics; single-process maps make every write atomic already.
type txManager struct{}

func (txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
