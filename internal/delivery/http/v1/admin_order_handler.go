package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// AdminOrderHandler serves the back-office order endpoints.
type AdminOrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewAdminOrderHandler(orderUC *usecase.OrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: orderUC}
}

func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	filter := domain.OrderFilter{
		Page:   utils.ParseInt(r.URL.Query().Get("page"), 1),
		Limit:  utils.ParseInt(r.URL.Query().Get("limit"), 20),
		Status: r.URL.Query().Get("status"),
		UserID: r.URL.Query().Get("userId"),
		Search: r.URL.Query().Get("q"),
	}
	if v := r.URL.Query().Get("isPaid"); v != "" {
		isPaid := v == "true"
		filter.IsPaid = &isPaid
	}

	orders, total, err := h.orderUC.ListOrders(r.Context(), tenantID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	order, err := h.orderUC.GetOrder(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *AdminOrderHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	timeline, err := h.orderUC.GetTimeline(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, timeline)
}

type updateOrderStatusReq struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
	tenantID := middleware.TenantFrom(r.Context())

	var req updateOrderStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		utils.WriteError(w, http.StatusBadRequest, "status required")
		return
	}

	actor := ""
	if user != nil {
		actor = user.ID
	}
	order, err := h.orderUC.TransitionOrder(r.Context(), tenantID, r.PathValue("id"), req.Status, actor, req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

type updatePaymentReq struct {
	IsPaid bool `json:"isPaid"`
}

func (h *AdminOrderHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var req updatePaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orderUC.MarkPaid(r.Context(), tenantID, r.PathValue("id"), req.IsPaid); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"isPaid": req.IsPaid})
}

func (h *AdminOrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	if err := h.orderUC.DeleteOrder(r.Context(), tenantID, r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStatusFlow exposes the lifecycle graphs so the admin UI can render
// valid next actions without hardcoding them.
func (h *AdminOrderHandler) GetStatusFlow(w http.ResponseWriter, r *http.Request) {
	orderFlow := make(map[string][]string, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		orderFlow[s] = usecase.OrderTransitions(s)
	}
	shipmentFlow := make(map[string][]string, len(domain.ShipmentStatuses))
	for _, s := range domain.ShipmentStatuses {
		shipmentFlow[s] = usecase.ShipmentTransitions(s)
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"order":    orderFlow,
		"shipment": shipmentFlow,
	})
}
