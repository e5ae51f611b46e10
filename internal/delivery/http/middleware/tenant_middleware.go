package middleware

import (
	"context"
	"net/http"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// NewTenantMiddleware resolves the tenant for a request: the X-Tenant-ID
// header wins, then the token's tenant claim, then the configured default.
// Runs ahead of auth, so the claim is read from the raw token here. Every
// downstream handler reads the tenant from context, never from the request
// directly.
func NewTenantMiddleware(defaultTenant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := r.Header.Get("X-Tenant-ID")
			if tenantID == "" {
				if claims, err := utils.ExtractClaims(r); err == nil {
					tenantID = claims.TenantID
				}
			}
			if tenantID == "" {
				tenantID = defaultTenant
			}
			if tenantID == "" {
				http.Error(w, "Bad Request: no tenant resolved", http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), domain.TenantContextKey, tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFrom returns the tenant ID resolved for this request.
func TenantFrom(ctx context.Context) string {
	if tenantID, ok := ctx.Value(domain.TenantContextKey).(string); ok {
		return tenantID
	}
	return ""
}
