package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/infrastructure/cache"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/repository/memory"
)

func newCatalogFixture(t *testing.T) (*memory.Store, *CatalogUsecase) {
	t.Helper()
	store := memory.NewStore()
	memCache := cache.NewMemoryCache(time.Minute, time.Minute)
	uc := NewCatalogUsecase(store.Catalog(), memCache, time.Minute, fixedNow)
	return store, uc
}

func TestCreateItemDefaults(t *testing.T) {
	t.Parallel()
	_, uc := newCatalogFixture(t)

	item := domain.CatalogItem{
		TenantID: testTenant,
		Kind:     domain.ItemKindSimple,
		Name:     "Sparkling Water 0.5l",
		Variants: []domain.Variant{{Code: "std", IsDefault: true, IsActive: true}},
	}
	require.NoError(t, uc.CreateItem(context.Background(), &item))
	require.NotEmpty(t, item.ID)
	require.Equal(t, "sparkling-water-05l", item.Slug)
	require.True(t, item.IsActive)
	require.Equal(t, testNow, item.CreatedAt)
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()
	_, uc := newCatalogFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		item domain.CatalogItem
	}{
		{"missing name", domain.CatalogItem{Kind: domain.ItemKindSimple}},
		{"unknown kind", domain.CatalogItem{Name: "x", Kind: "bundle"}},
		{"blank variant code", domain.CatalogItem{Name: "x", Kind: domain.ItemKindSimple, Variants: []domain.Variant{{Code: ""}}}},
		{"duplicate variant code", domain.CatalogItem{Name: "x", Kind: domain.ItemKindSimple, Variants: []domain.Variant{{Code: "a"}, {Code: "a"}}}},
		{"two defaults", domain.CatalogItem{Name: "x", Kind: domain.ItemKindSimple, Variants: []domain.Variant{{Code: "a", IsDefault: true}, {Code: "b", IsDefault: true}}}},
		{"simple with groups", domain.CatalogItem{Name: "x", Kind: domain.ItemKindSimple, ModifierGroups: []domain.ModifierGroup{{Code: "g", Options: []domain.ModifierOption{{Code: "o"}}}}}},
		{"group without code", domain.CatalogItem{Name: "x", Kind: domain.ItemKindMenu, ModifierGroups: []domain.ModifierGroup{{Options: []domain.ModifierOption{{Code: "o"}}}}}},
		{"group without options", domain.CatalogItem{Name: "x", Kind: domain.ItemKindMenu, ModifierGroups: []domain.ModifierGroup{{Code: "g"}}}},
		{"min above max", domain.CatalogItem{Name: "x", Kind: domain.ItemKindMenu, ModifierGroups: []domain.ModifierGroup{{Code: "g", MinSelect: 3, MaxSelect: 2, Options: []domain.ModifierOption{{Code: "o"}}}}}},
	}
	for _, tc := range cases {
		item := tc.item
		item.TenantID = testTenant
		require.ErrorIs(t, uc.CreateItem(ctx, &item), domain.ErrPreconditionFailed, tc.name)
	}
}

func TestGetItemBySlugCacheAside(t *testing.T) {
	t.Parallel()
	store, uc := newCatalogFixture(t)
	ctx := context.Background()

	item := domain.CatalogItem{
		TenantID: testTenant,
		Kind:     domain.ItemKindSimple,
		Name:     "Cola",
		Slug:     "cola",
		Variants: []domain.Variant{{Code: "std", IsDefault: true, IsActive: true}},
	}
	require.NoError(t, uc.CreateItem(ctx, &item))

	got, err := uc.GetItemBySlug(ctx, testTenant, "cola")
	require.NoError(t, err)
	require.Equal(t, "Cola", got.Name)

	// A direct repo write is invisible while the cache entry lives.
	stale := item
	stale.Name = "Cola Zero"
	require.NoError(t, store.Catalog().UpdateItem(ctx, &stale))
	got, err = uc.GetItemBySlug(ctx, testTenant, "cola")
	require.NoError(t, err)
	require.Equal(t, "Cola", got.Name)

	// Writes through the usecase invalidate the entry.
	stale.Name = "Cola Max"
	require.NoError(t, uc.UpdateItem(ctx, &stale))
	got, err = uc.GetItemBySlug(ctx, testTenant, "cola")
	require.NoError(t, err)
	require.Equal(t, "Cola Max", got.Name)
}

func TestGetItemBySlugTenantScoped(t *testing.T) {
	t.Parallel()
	_, uc := newCatalogFixture(t)
	ctx := context.Background()

	item := domain.CatalogItem{
		TenantID: testTenant,
		Kind:     domain.ItemKindSimple,
		Name:     "Cola",
		Slug:     "cola",
	}
	require.NoError(t, uc.CreateItem(ctx, &item))

	_, err := uc.GetItemBySlug(ctx, "tenant-b", "cola")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListItemsClampsLimit(t *testing.T) {
	t.Parallel()
	store, uc := newCatalogFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		item := domain.CatalogItem{
			ID:       fmt.Sprintf("item-%d", i),
			TenantID: testTenant,
			Kind:     domain.ItemKindSimple,
			Name:     "Item",
			Slug:     fmt.Sprintf("item-%d", i),
		}
		require.NoError(t, store.Catalog().CreateItem(ctx, &item))
	}

	items, total, err := uc.ListItems(ctx, testTenant, domain.ItemFilter{Limit: 0})
	require.NoError(t, err)
	require.Len(t, items, 20)
	require.EqualValues(t, 25, total)

	items, _, err = uc.ListItems(ctx, testTenant, domain.ItemFilter{Limit: 500})
	require.NoError(t, err)
	require.Len(t, items, 20)
}

func TestAttachImage(t *testing.T) {
	t.Parallel()
	_, uc := newCatalogFixture(t)
	ctx := context.Background()

	item := domain.CatalogItem{
		TenantID: testTenant,
		Kind:     domain.ItemKindSimple,
		Name:     "Cola",
		Slug:     "cola",
	}
	require.NoError(t, uc.CreateItem(ctx, &item))

	updated, err := uc.AttachImage(ctx, testTenant, item.ID, "https://cdn.example.com/media/cola.webp")
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
}
