package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/repository/memory"
)

func zone(code string, priority int, created time.Time, mut func(*domain.GeoZone)) domain.GeoZone {
	z := domain.GeoZone{
		ID:        "zone-" + code,
		TenantID:  testTenant,
		Code:      code,
		Priority:  priority,
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if mut != nil {
		mut(&z)
	}
	return z
}

func TestMatchZoneCountryGate(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("de", 0, testNow, func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
		zone("global", 0, testNow.Add(time.Second), nil),
	}

	code, ok := MatchZone(zones, domain.Address{Country: "TR"})
	require.True(t, ok)
	require.Equal(t, "global", code)

	code, ok = MatchZone(zones, domain.Address{Country: "de"})
	require.True(t, ok)
	require.Equal(t, "de", code)
}

func TestMatchZoneNoCandidate(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("de", 0, testNow, func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
	}
	_, ok := MatchZone(zones, domain.Address{Country: "FR"})
	require.False(t, ok)
}

func TestMatchZonePostalRange(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("istanbul-asia", 0, testNow, func(z *domain.GeoZone) {
			z.Countries = []string{"TR"}
			z.PostalInclude = []string{"34000-34999"}
		}),
		zone("tr", 0, testNow.Add(time.Second), func(z *domain.GeoZone) { z.Countries = []string{"TR"} }),
	}

	code, ok := MatchZone(zones, domain.Address{Country: "TR", Postal: "34710"})
	require.True(t, ok)
	require.Equal(t, "istanbul-asia", code)

	code, ok = MatchZone(zones, domain.Address{Country: "TR", Postal: "35000"})
	require.True(t, ok)
	require.Equal(t, "tr", code)
}

func TestMatchZonePostalGlobAndRegex(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("glob", 0, testNow, func(z *domain.GeoZone) {
			z.Countries = []string{"DE"}
			z.PostalInclude = []string{"10*"}
		}),
		zone("regex", 0, testNow.Add(time.Second), func(z *domain.GeoZone) {
			z.Countries = []string{"DE"}
			z.PostalInclude = []string{"^2[0-9]{4}$"}
		}),
		zone("de", 0, testNow.Add(2*time.Second), func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
	}

	code, _ := MatchZone(zones, domain.Address{Country: "DE", Postal: "10115"})
	require.Equal(t, "glob", code)

	code, _ = MatchZone(zones, domain.Address{Country: "DE", Postal: "20095"})
	require.Equal(t, "regex", code)

	code, _ = MatchZone(zones, domain.Address{Country: "DE", Postal: "80331"})
	require.Equal(t, "de", code)
}

func TestMatchZonePostalIncludeGates(t *testing.T) {
	t.Parallel()
	// A zone targeting specific postals is no candidate at all when the
	// address carries none, or one outside the list.
	targeted := []domain.GeoZone{
		zone("istanbul-asia", 0, testNow, func(z *domain.GeoZone) {
			z.Countries = []string{"TR"}
			z.PostalInclude = []string{"34000-34999"}
		}),
	}

	_, ok := MatchZone(targeted, domain.Address{Country: "TR"})
	require.False(t, ok)

	_, ok = MatchZone(targeted, domain.Address{Country: "TR", Postal: "35000"})
	require.False(t, ok)

	zones := append(targeted, zone("tr", 0, testNow.Add(time.Second), func(z *domain.GeoZone) { z.Countries = []string{"TR"} }))
	code, ok := MatchZone(zones, domain.Address{Country: "TR"})
	require.True(t, ok)
	require.Equal(t, "tr", code)
}

func TestMatchZoneExcludeVeto(t *testing.T) {
	t.Parallel()
	// The postal exclude outweighs the city include, dropping the zone below
	// the plain country match.
	zones := []domain.GeoZone{
		zone("city", 0, testNow, func(z *domain.GeoZone) {
			z.Countries = []string{"DE"}
			z.CitiesInclude = []string{"Berlin"}
			z.PostalExclude = []string{"13*"}
		}),
		zone("de", 0, testNow.Add(time.Second), func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
	}

	code, _ := MatchZone(zones, domain.Address{Country: "DE", City: "Berlin", Postal: "10115"})
	require.Equal(t, "city", code)

	code, _ = MatchZone(zones, domain.Address{Country: "DE", City: "Berlin", Postal: "13405"})
	require.Equal(t, "de", code)
}

func TestMatchZoneStateScore(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("bavaria", 0, testNow, func(z *domain.GeoZone) {
			z.Countries = []string{"DE"}
			z.States = []string{"Bayern"}
		}),
		zone("de", 0, testNow.Add(time.Second), func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
	}

	code, _ := MatchZone(zones, domain.Address{Country: "DE", State: "bayern"})
	require.Equal(t, "bavaria", code)
}

func TestMatchZonePriorityBreaksTies(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("low", 1, testNow, func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
		zone("high", 5, testNow.Add(time.Second), func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
	}

	code, _ := MatchZone(zones, domain.Address{Country: "DE"})
	require.Equal(t, "high", code)
}

func TestMatchZoneCreationBreaksEqualPriority(t *testing.T) {
	t.Parallel()
	zones := []domain.GeoZone{
		zone("younger", 3, testNow.Add(time.Hour), func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
		zone("older", 3, testNow, func(z *domain.GeoZone) { z.Countries = []string{"DE"} }),
	}

	for i := 0; i < 10; i++ {
		code, _ := MatchZone(zones, domain.Address{Country: "DE"})
		require.Equal(t, "older", code)
	}
}

func TestResolveZoneSkipsInactive(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	ctx := context.Background()

	inactive := zone("off", 9, testNow, func(z *domain.GeoZone) { z.IsActive = false })
	active := zone("on", 0, testNow, nil)
	require.NoError(t, store.Zones().CreateZone(ctx, &inactive))
	require.NoError(t, store.Zones().CreateZone(ctx, &active))

	uc := NewZoneUsecase(store.Zones())
	code, ok, err := uc.ResolveZone(ctx, testTenant, domain.Address{Country: "DE"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "on", code)
}

func TestZoneCRUDGuards(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	uc := NewZoneUsecase(store.Zones())
	ctx := context.Background()

	z := zone("eu", 0, testNow, nil)
	require.NoError(t, uc.CreateZone(ctx, &z))

	dup := zone("eu", 1, testNow, nil)
	require.ErrorIs(t, uc.CreateZone(ctx, &dup), domain.ErrPreconditionFailed)

	blank := zone("", 0, testNow, nil)
	require.ErrorIs(t, uc.CreateZone(ctx, &blank), domain.ErrPreconditionFailed)

	update := zone("eu", 7, testNow.Add(time.Hour), nil)
	require.NoError(t, uc.UpdateZone(ctx, &update))
	require.Equal(t, z.ID, update.ID)
	require.Equal(t, z.CreatedAt, update.CreatedAt)

	missing := zone("nope", 0, testNow, nil)
	require.ErrorIs(t, uc.UpdateZone(ctx, &missing), domain.ErrNotFound)
}
