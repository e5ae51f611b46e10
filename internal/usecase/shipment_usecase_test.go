package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/repository/memory"
)

func newShipmentFixture(t *testing.T) (*memory.Store, *ShipmentUsecase) {
	t.Helper()
	store := memory.NewStore()
	uc := NewShipmentUsecase(store.Shipments(), store.Orders(), store.Stock(), store.Tx(), fixedNow)
	seedOrder(t, store, "order-1", domain.OrderStatusPreparing, domain.PaymentMethodCOD, false)
	return store, uc
}

func seedShipment(t *testing.T, store *memory.Store, id, status string) {
	t.Helper()
	shipment := domain.Shipment{
		ID:       id,
		TenantID: testTenant,
		OrderID:  "order-1",
		Status:   status,
		Packages: []domain.Package{{
			Code:  "pkg-1",
			Items: []domain.PackageItem{{OrderLineID: "line-1", ItemID: "water", Quantity: 2}},
		}},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, store.Shipments().Create(context.Background(), &shipment))
}

func stockEntries(t *testing.T, store *memory.Store, itemID string) []domain.StockLedgerEntry {
	t.Helper()
	entries, _, err := store.Stock().ListEntries(context.Background(), testTenant, itemID, 100, 0)
	require.NoError(t, err)
	return entries
}

func TestCreateShipment(t *testing.T) {
	t.Parallel()
	_, uc := newShipmentFixture(t)

	shipment, err := uc.CreateShipment(context.Background(), testTenant, CreateShipmentRequest{
		OrderID: "order-1",
		Packages: []domain.Package{{
			Items: []domain.PackageItem{{OrderLineID: "line-1", ItemID: "water", Quantity: 3}},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, domain.ShipmentStatusPending, shipment.Status)
	require.NotEmpty(t, shipment.ID)
	require.Len(t, shipment.Events, 1)
	require.Equal(t, "shipment_created", shipment.Events[0].Code)
}

func TestCreateShipmentValidation(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	ctx := context.Background()

	// No packages.
	_, err := uc.CreateShipment(ctx, testTenant, CreateShipmentRequest{OrderID: "order-1"})
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)

	// Unknown order line.
	_, err = uc.CreateShipment(ctx, testTenant, CreateShipmentRequest{
		OrderID:  "order-1",
		Packages: []domain.Package{{Items: []domain.PackageItem{{OrderLineID: "ghost", Quantity: 1}}}},
	})
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)

	// More than ordered.
	_, err = uc.CreateShipment(ctx, testTenant, CreateShipmentRequest{
		OrderID:  "order-1",
		Packages: []domain.Package{{Items: []domain.PackageItem{{OrderLineID: "line-1", Quantity: 4}}}},
	})
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)

	// Order still pending.
	seedOrder(t, store, "order-2", domain.OrderStatusPending, domain.PaymentMethodCOD, false)
	_, err = uc.CreateShipment(ctx, testTenant, CreateShipmentRequest{
		OrderID:  "order-2",
		Packages: []domain.Package{{Items: []domain.PackageItem{{OrderLineID: "line-1", Quantity: 1}}}},
	})
	require.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestTransitionShipmentTotality(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	ctx := context.Background()

	for i, from := range domain.ShipmentStatuses {
		for j, to := range domain.ShipmentStatuses {
			id := fmt.Sprintf("shp-%d-%d", i, j)
			seedShipment(t, store, id, from)

			updated, err := uc.TransitionShipment(ctx, testTenant, id, TransitionShipmentRequest{Status: to})
			switch {
			case to == domain.ShipmentStatusShipped && postShipped[from]:
				// Replayed dispatch is a no-op success.
				require.NoError(t, err, "%s -> %s", from, to)
				require.Equal(t, from, updated.Status)
			case shipmentMachine.Can(from, to):
				require.NoError(t, err, "%s -> %s", from, to)
				require.Equal(t, to, updated.Status)
			default:
				require.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestShippedDeductsStockOnce(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	ctx := context.Background()
	seedShipment(t, store, "shp-1", domain.ShipmentStatusPacked)

	updated, err := uc.TransitionShipment(ctx, testTenant, "shp-1", TransitionShipmentRequest{
		Status:         domain.ShipmentStatusShipped,
		TrackingNumber: strPtr("TRK-001"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.ShipmentStatusShipped, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	require.Equal(t, "TRK-001", *updated.TrackingNumber)

	entries := stockEntries(t, store, "water")
	require.Len(t, entries, 1)
	require.Equal(t, -2, entries[0].ChangeAmount)
	require.Equal(t, domain.StockReasonShipmentDispatched, entries[0].Reason)
	require.Equal(t, "shp-1", entries[0].ReferenceID)
	require.Equal(t, "line-1", entries[0].OrderLineID)

	// Replaying the dispatch request never deducts again.
	replay, err := uc.TransitionShipment(ctx, testTenant, "shp-1", TransitionShipmentRequest{Status: domain.ShipmentStatusShipped})
	require.NoError(t, err)
	require.Equal(t, domain.ShipmentStatusShipped, replay.Status)
	require.Len(t, stockEntries(t, store, "water"), 1)

	// Nor does a replay after the shipment moved further downstream.
	_, err = uc.TransitionShipment(ctx, testTenant, "shp-1", TransitionShipmentRequest{Status: domain.ShipmentStatusInTransit})
	require.NoError(t, err)
	_, err = uc.TransitionShipment(ctx, testTenant, "shp-1", TransitionShipmentRequest{Status: domain.ShipmentStatusShipped})
	require.NoError(t, err)
	require.Len(t, stockEntries(t, store, "water"), 1)
}

func TestShippedSumsLineAcrossPackages(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	ctx := context.Background()

	// One order line split 1+2 over two packages yields a single ledger
	// entry for the line's total.
	shipment := domain.Shipment{
		ID:       "shp-split",
		TenantID: testTenant,
		OrderID:  "order-1",
		Status:   domain.ShipmentStatusPacked,
		Packages: []domain.Package{
			{Code: "pkg-1", Items: []domain.PackageItem{{OrderLineID: "line-1", ItemID: "water", Quantity: 1}}},
			{Code: "pkg-2", Items: []domain.PackageItem{{OrderLineID: "line-1", ItemID: "water", Quantity: 2}}},
		},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, store.Shipments().Create(ctx, &shipment))

	_, err := uc.TransitionShipment(ctx, testTenant, "shp-split", TransitionShipmentRequest{Status: domain.ShipmentStatusShipped})
	require.NoError(t, err)

	entries := stockEntries(t, store, "water")
	require.Len(t, entries, 1)
	require.Equal(t, -3, entries[0].ChangeAmount)
	require.Equal(t, "line-1", entries[0].OrderLineID)
	require.Equal(t, "shp-split", entries[0].ReferenceID)
}

func TestCanceledShipmentNeverDeducts(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	ctx := context.Background()
	seedShipment(t, store, "shp-cancel", domain.ShipmentStatusPending)

	updated, err := uc.TransitionShipment(ctx, testTenant, "shp-cancel", TransitionShipmentRequest{Status: domain.ShipmentStatusCanceled})
	require.NoError(t, err)
	require.Equal(t, domain.ShipmentStatusCanceled, updated.Status)
	require.Empty(t, stockEntries(t, store, "water"))
}

func TestTransitionShipmentRecordsEvent(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	seedShipment(t, store, "shp-evt", domain.ShipmentStatusPending)

	updated, err := uc.TransitionShipment(context.Background(), testTenant, "shp-evt", TransitionShipmentRequest{
		Status:      domain.ShipmentStatusPacked,
		Description: "packed at depot",
		Location:    "Hamburg",
		Actor:       "ops-1",
	})
	require.NoError(t, err)
	last := updated.Events[len(updated.Events)-1]
	require.Equal(t, "status_packed", last.Code)
	require.Equal(t, "packed at depot", last.Description)
	require.Equal(t, "Hamburg", last.Location)
	require.Equal(t, "ops-1", last.Actor)
}

func TestAddTrackingEvent(t *testing.T) {
	t.Parallel()
	store, uc := newShipmentFixture(t)
	seedShipment(t, store, "shp-track", domain.ShipmentStatusInTransit)

	updated, err := uc.AddTrackingEvent(context.Background(), testTenant, "shp-track", domain.ShipmentEvent{
		Code:     "carrier_scan",
		Location: "Frankfurt hub",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ShipmentStatusInTransit, updated.Status)
	last := updated.Events[len(updated.Events)-1]
	require.Equal(t, "carrier_scan", last.Code)
	require.Equal(t, testNow, last.At)

	events, err := uc.Tracking(context.Background(), testTenant, "shp-track")
	require.NoError(t, err)
	require.NotEmpty(t, events)
}
