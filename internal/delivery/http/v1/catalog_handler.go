package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// CatalogHandler serves the public storefront catalog and the line price
// quote endpoint.
type CatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
	pricingUC *usecase.PricingUsecase
}

func NewCatalogHandler(catalogUC *usecase.CatalogUsecase, pricingUC *usecase.PricingUsecase) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: catalogUC,
		pricingUC: pricingUC,
	}
}

func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	active := true
	filter := domain.ItemFilter{
		Kind:     r.URL.Query().Get("kind"),
		Query:    r.URL.Query().Get("q"),
		IsActive: &active,
		Limit:    utils.ParseInt(r.URL.Query().Get("limit"), 20),
		Offset:   utils.ParseInt(r.URL.Query().Get("offset"), 0),
	}

	items, total, err := h.catalogUC.ListItems(r.Context(), tenantID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func (h *CatalogHandler) GetItemBySlug(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	slug := r.PathValue("slug")
	if slug == "" {
		utils.WriteError(w, http.StatusBadRequest, "slug required")
		return
	}

	item, err := h.catalogUC.GetItemBySlug(r.Context(), tenantID, slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !item.IsActive || !item.IsPublished {
		utils.WriteError(w, http.StatusNotFound, "item not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

// QuoteLine prices a single line without creating anything. The storefront
// uses it for live cart totals.
func (h *CatalogHandler) QuoteLine(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var req usecase.PriceLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := h.pricingUC.PriceLine(r.Context(), tenantID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, snapshot)
}
