package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/logger"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// OrderHandler serves the customer-facing order endpoints.
type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC}
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tenantID := middleware.TenantFrom(r.Context())

	var req usecase.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("X-Idempotency-Key")
	}

	order, err := h.orderUC.Checkout(r.Context(), tenantID, user.ID, req)
	if err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Str("user_id", user.ID).Msg("Checkout failed")
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tenantID := middleware.TenantFrom(r.Context())

	orders, err := h.orderUC.GetMyOrders(r.Context(), tenantID, user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetMyOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tenantID := middleware.TenantFrom(r.Context())

	order, err := h.orderUC.GetOrder(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if order.UserID != user.ID {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelMyOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tenantID := middleware.TenantFrom(r.Context())
	orderID := r.PathValue("id")

	order, err := h.orderUC.GetOrder(r.Context(), tenantID, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if order.UserID != user.ID {
		utils.WriteError(w, http.StatusNotFound, "order not found")
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	cancelled, err := h.orderUC.CancelOrder(r.Context(), tenantID, orderID, user.ID, req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cancelled)
}
