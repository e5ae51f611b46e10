package v1

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/delivery/http/middleware"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/internal/usecase"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// ConfigHandler serves the public zone-resolution and shipping-quote
// endpoints the storefront calls before checkout.
type ConfigHandler struct {
	zoneUC     *usecase.ZoneUsecase
	shippingUC *usecase.ShippingUsecase
}

func NewConfigHandler(zoneUC *usecase.ZoneUsecase, shippingUC *usecase.ShippingUsecase) *ConfigHandler {
	return &ConfigHandler{
		zoneUC:     zoneUC,
		shippingUC: shippingUC,
	}
}

// ResolveZone maps a delivery address to a zone code.
func (h *ConfigHandler) ResolveZone(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, matched, err := h.zoneUC.ResolveZone(r.Context(), tenantID, addr)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"zoneCode": code,
		"matched":  matched,
	})
}

func (h *ConfigHandler) ListShippingMethods(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())
	methods, err := h.shippingUC.ListMethods(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	active := methods[:0]
	for _, m := range methods {
		if m.IsActive {
			active = append(active, m)
		}
	}
	utils.WriteJSON(w, http.StatusOK, active)
}

type shippingQuoteReq struct {
	MethodCode string  `json:"methodCode"`
	Subtotal   float64 `json:"subtotal"`
	Weight     float64 `json:"weight"`
}

// QuoteShipping prices a method for a cart context without creating
// anything.
func (h *ConfigHandler) QuoteShipping(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFrom(r.Context())

	var req shippingQuoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MethodCode == "" {
		utils.WriteError(w, http.StatusBadRequest, "methodCode required")
		return
	}

	method, err := h.shippingUC.ResolveMethod(r.Context(), tenantID, req.MethodCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	price := h.shippingUC.Quote(method, req.Subtotal, req.Weight)
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"methodCode": method.Code,
		"price":      price,
		"currency":   method.Currency,
	})
}
