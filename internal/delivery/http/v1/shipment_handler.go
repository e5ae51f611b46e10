package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// ShipmentHandler serves shipment administration plus the public tracking
// endpoint.
type ShipmentHandler struct {
	shipmentUC *usecase.ShipmentUsecase
}

func NewShipmentHandler(shipmentUC *usecase.ShipmentUsecase) *ShipmentHandler {
	return &ShipmentHandler{shipmentUC: shipmentUC}
}

func (h *ShipmentHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var req usecase.CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shipment, err := h.shipmentUC.CreateShipment(r.Context(), tenantID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, shipment)
}

func (h *ShipmentHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	shipment, err := h.shipmentUC.GetShipment(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, shipment)
}

func (h *ShipmentHandler) GetOrderShipments(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	shipments, err := h.shipmentUC.GetOrderShipments(r.Context(), tenantID, r.PathValue("orderId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, shipments)
}

func (h *ShipmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
	tenantID := middleware.TenantFrom(r.Context())

	var req usecase.TransitionShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		utils.WriteError(w, http.StatusBadRequest, "status required")
		return
	}
	if user != nil {
		req.Actor = user.ID
	}

	shipment, err := h.shipmentUC.TransitionShipment(r.Context(), tenantID, r.PathValue("id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, shipment)
}

func (h *ShipmentHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var event domain.ShipmentEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if event.Code == "" {
		utils.WriteError(w, http.StatusBadRequest, "event code required")
		return
	}

	shipment, err := h.shipmentUC.AddTrackingEvent(r.Context(), tenantID, r.PathValue("id"), event)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, shipment)
}

// Tracking is the public trail: status plus events, no package contents.
func (h *ShipmentHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	shipment, err := h.shipmentUC.GetShipment(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"shipmentId":     shipment.ID,
		"status":         shipment.Status,
		"trackingNumber": shipment.TrackingNumber,
		"events":         shipment.Events,
	})
}
