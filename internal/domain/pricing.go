package domain

// ModifierSelection is a caller-supplied add-on choice for one order line.
// Quantity < 1 is treated as 1.
type ModifierSelection struct {
	GroupCode  string `json:"groupCode"`
	OptionCode string `json:"optionCode"`
	Quantity   int    `json:"quantity"`
}

// ModifierCharge is the per-option breakdown line inside a snapshot.
type ModifierCharge struct {
	GroupCode  string  `json:"groupCode"`
	OptionCode string  `json:"optionCode"`
	Name       string  `json:"name,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitAmount float64 `json:"unitAmount"`
	Total      float64 `json:"total"`
}

// PriceComponents breaks the unit price into its parts.
type PriceComponents struct {
	Base           float64          `json:"base"`
	Deposit        float64          `json:"deposit"`
	ModifiersTotal float64          `json:"modifiersTotal"`
	Modifiers      []ModifierCharge `json:"modifiers,omitempty"`
}

// PricingSnapshot is the immutable result of pricing one order line.
// It is created once at order-creation time and never recomputed; it stays
// the price of record even if the underlying catalog item changes later.
type PricingSnapshot struct {
	UnitPrice           float64         `json:"unitPrice"`
	Currency            string          `json:"currency"`
	Components          PriceComponents `json:"components"`
	SelectedVariantCode string          `json:"selectedVariantCode"`
	DisplayName         string          `json:"displayName"`
	DisplayVariantName  string          `json:"displayVariantName,omitempty"`
}
