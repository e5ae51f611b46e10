package usecase

import (
	"context"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
)

// Zone match weights. A zone only becomes a candidate if its country list is
// empty (global) or contains the input country, and its postal include list,
// when set, matches the input postal.
const (
	scoreCountry       = 4
	scoreState         = 3
	scorePostalInclude = 3
	scorePostalExclude = -4
	scoreCityInclude   = 2
	scoreCityExclude   = -3
)

// ZoneUsecase scores configured geo-zones against a delivery address.
type ZoneUsecase struct {
	zoneRepo domain.ZoneRepository
}

func NewZoneUsecase(zoneRepo domain.ZoneRepository) *ZoneUsecase {
	return &ZoneUsecase{zoneRepo: zoneRepo}
}

// ResolveZone returns the best-scoring active zone code for the address, or
// ok=false when no zone passes the country gate. No match is not an error;
// callers decide the fallback.
func (u *ZoneUsecase) ResolveZone(ctx context.Context, tenantID string, addr domain.Address) (string, bool, error) {
	zones, err := u.zoneRepo.ListActiveZones(ctx, tenantID)
	if err != nil {
		return "", false, err
	}
	code, ok := MatchZone(zones, addr)
	return code, ok, nil
}

// MatchZone is the pure scoring function over an explicit zone list, exposed
// separately so it is testable without persistence. Ties keep the first
// candidate in priority-descending, creation-ascending order.
func MatchZone(zones []domain.GeoZone, addr domain.Address) (string, bool) {
	ordered := append([]domain.GeoZone(nil), zones...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	bestCode := ""
	bestScore := 0
	found := false
	for _, z := range ordered {
		restricted := len(z.Countries) > 0
		if restricted && !containsFold(z.Countries, addr.Country) {
			continue
		}

		score := 0
		if restricted {
			score += scoreCountry
		}
		if addr.State != "" && containsFold(z.States, addr.State) {
			score += scoreState
		}
		// A non-empty include list is a gate: the zone only applies to the
		// postals it names. Excludes merely penalize, so a hit can still
		// lose to (not silently become) a broader zone.
		if len(z.PostalInclude) > 0 {
			if addr.Postal == "" || !matchAnyPattern(z.PostalInclude, addr.Postal) {
				continue
			}
			score += scorePostalInclude
		}
		if addr.Postal != "" && matchAnyPattern(z.PostalExclude, addr.Postal) {
			score += scorePostalExclude
		}
		if addr.City != "" {
			if containsFold(z.CitiesInclude, addr.City) {
				score += scoreCityInclude
			}
			if containsFold(z.CitiesExclude, addr.City) {
				score += scoreCityExclude
			}
		}

		if !found || score > bestScore {
			bestCode = z.Code
			bestScore = score
			found = true
		}
	}
	return bestCode, found
}

func containsFold(list []string, value string) bool {
	for _, s := range list {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func matchAnyPattern(patterns []string, input string) bool {
	for _, p := range patterns {
		if matchPattern(p, input) {
			return true
		}
	}
	return false
}

// matchPattern tries, in order: numeric range "A-B", glob (* / ?), leading-^
// regular expression, exact case-insensitive equality.
func matchPattern(pattern, input string) bool {
	pattern = strings.TrimSpace(pattern)
	input = strings.TrimSpace(input)
	if pattern == "" || input == "" {
		return false
	}

	if lo, hi, ok := parseRange(pattern); ok {
		n, err := strconv.Atoi(input)
		if err != nil {
			return false
		}
		return n >= lo && n <= hi
	}

	if strings.ContainsAny(pattern, "*?") {
		ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(input))
		return err == nil && ok
	}

	if strings.HasPrefix(pattern, "^") {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return false
		}
		return re.MatchString(input)
	}

	return strings.EqualFold(pattern, input)
}

func parseRange(pattern string) (int, int, bool) {
	lo, hi, ok := strings.Cut(pattern, "-")
	if !ok {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// --- Admin CRUD glue ---

func (u *ZoneUsecase) ListZones(ctx context.Context, tenantID string) ([]domain.GeoZone, error) {
	return u.zoneRepo.ListZones(ctx, tenantID)
}

func (u *ZoneUsecase) CreateZone(ctx context.Context, zone *domain.GeoZone) error {
	if zone.Code == "" {
		return domain.ErrPreconditionFailed
	}
	// Zone codes are immutable and unique per tenant.
	existing, err := u.zoneRepo.GetZoneByCode(ctx, zone.TenantID, zone.Code)
	if err == nil && existing != nil {
		return domain.ErrPreconditionFailed
	}
	return u.zoneRepo.CreateZone(ctx, zone)
}

func (u *ZoneUsecase) UpdateZone(ctx context.Context, zone *domain.GeoZone) error {
	current, err := u.zoneRepo.GetZoneByCode(ctx, zone.TenantID, zone.Code)
	if err != nil {
		return err
	}
	zone.ID = current.ID
	zone.CreatedAt = current.CreatedAt
	return u.zoneRepo.UpdateZone(ctx, zone)
}

func (u *ZoneUsecase) DeleteZone(ctx context.Context, tenantID, id string) error {
	return u.zoneRepo.DeleteZone(ctx, tenantID, id)
}
