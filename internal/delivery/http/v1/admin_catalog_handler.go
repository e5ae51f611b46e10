package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// AdminCatalogHandler serves the back-office catalog endpoints, including
// the stock ledger read.
type AdminCatalogHandler struct {
	catalogUC *usecase.CatalogUsecase
	stockRepo domain.StockRepository
}

func NewAdminCatalogHandler(catalogUC *usecase.CatalogUsecase, stockRepo domain.StockRepository) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		catalogUC: catalogUC,
		stockRepo: stockRepo,
	}
}

func (h *AdminCatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	filter := domain.ItemFilter{
		Kind:   r.URL.Query().Get("kind"),
		Query:  r.URL.Query().Get("q"),
		Limit:  utils.ParseInt(r.URL.Query().Get("limit"), 20),
		Offset: utils.ParseInt(r.URL.Query().Get("offset"), 0),
	}
	if v := r.URL.Query().Get("isActive"); v != "" {
		isActive := v == "true"
		filter.IsActive = &isActive
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

func (h *AdminCatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	item, err := h.catalogUC.GetItem(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *AdminCatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var item domain.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.TenantID = tenantID

	if err := h.catalogUC.CreateItem(r.Context(), &item); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, item)
}

func (h *AdminCatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var item domain.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.TenantID = tenantID
	item.ID = r.PathValue("id")

	if err := h.catalogUC.UpdateItem(r.Context(), &item); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

type updateItemStatusReq struct {
	IsActive bool `json:"isActive"`
}

func (h *AdminCatalogHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var req updateItemStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalogUC.UpdateItemStatus(r.Context(), tenantID, r.PathValue("id"), req.IsActive); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isActive": req.IsActive})
}

func (h *AdminCatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	if err := h.catalogUC.DeleteItem(r.Context(), tenantID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminCatalogHandler) GetStockLedger(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	entries, total, err := h.stockRepo.ListEntries(r.Context(), tenantID, r.PathValue("id"),
		utils.ParseInt(r.URL.Query().Get("limit"), 20),
		utils.ParseInt(r.URL.Query().Get("offset"), 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
	})
}
