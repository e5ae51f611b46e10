package v1

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// AdminConfigHandler serves zone and shipping-method administration.
type AdminConfigHandler struct {
	zoneUC     *usecase.ZoneUsecase
	shippingUC *usecase.ShippingUsecase
}

func NewAdminConfigHandler(zoneUC *usecase.ZoneUsecase, shippingUC *usecase.ShippingUsecase) *AdminConfigHandler {
	return &AdminConfigHandler{
		zoneUC:     zoneUC,
		shippingUC: shippingUC,
	}
}

// --- Zones ---

func (h *AdminConfigHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	zones, err := h.zoneUC.ListZones(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, zones)
}

func (h *AdminConfigHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var zone domain.GeoZone
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	zone.TenantID = tenantID
	zone.ID = utils.GenerateUUID()
	zone.CreatedAt = time.Now()
	zone.UpdatedAt = zone.CreatedAt

	if err := h.zoneUC.CreateZone(r.Context(), &zone); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, zone)
}

func (h *AdminConfigHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var zone domain.GeoZone
	if err := json.NewDecoder(r.Body).Decode(&zone); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	zone.TenantID = tenantID
	zone.Code = r.PathValue("code")
	zone.UpdatedAt = time.Now()

	if err := h.zoneUC.UpdateZone(r.Context(), &zone); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, zone)
}

func (h *AdminConfigHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	if err := h.zoneUC.DeleteZone(r.Context(), tenantID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Shipping methods ---

func (h *AdminConfigHandler) ListMethods(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	methods, err := h.shippingUC.ListMethods(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, methods)
}

func (h *AdminConfigHandler) CreateMethod(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var method domain.ShippingMethod
	if err := json.NewDecoder(r.Body).Decode(&method); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	method.TenantID = tenantID
	method.ID = utils.GenerateUUID()
	method.CreatedAt = time.Now()
	method.UpdatedAt = method.CreatedAt

	if err := h.shippingUC.CreateMethod(r.Context(), &method); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, method)
}

func (h *AdminConfigHandler) UpdateMethod(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var method domain.ShippingMethod
	if err := json.NewDecoder(r.Body).Decode(&method); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	method.TenantID = tenantID
	method.Code = r.PathValue("code")
	method.UpdatedAt = time.Now()

	if err := h.shippingUC.UpdateMethod(r.Context(), &method); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, method)
}

func (h *AdminConfigHandler) DeleteMethod(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	if err := h.shippingUC.DeleteMethod(r.Context(), tenantID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
