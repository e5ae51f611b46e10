package domain

// Item kinds. A simple product carries its price directly on the variant;
// a menu item is a composite priced through variant + modifier selections.
const (
	ItemKindSimple = "simple"
	ItemKindMenu   = "menu"
)

// Price entry kinds
const (
	PriceKindBase      = "base"
	PriceKindDeposit   = "deposit"
	PriceKindSurcharge = "surcharge"
	PriceKindDiscount  = "discount"
)

// Shipping cost calculation strategies
const (
	CalcFlat     = "flat"
	CalcTable    = "table"
	CalcFreeOver = "free_over"
)

// Order Statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Shipment Statuses
const (
	ShipmentStatusPending        = "pending"
	ShipmentStatusPacked         = "packed"
	ShipmentStatusShipped        = "shipped"
	ShipmentStatusInTransit      = "in_transit"
	ShipmentStatusOutForDelivery = "out_for_delivery"
	ShipmentStatusDelivered      = "delivered"
	ShipmentStatusReturned       = "returned"
	ShipmentStatusCanceled       = "canceled"
)

// Payment Methods
const (
	PaymentMethodCOD        = "cod"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodWallet     = "wallet"
	PaymentMethodBank       = "bank_transfer"
)

// Stock ledger reasons
const (
	StockReasonShipmentDispatched = "shipment_dispatched"
	StockReasonRestock            = "restock"
	StockReasonAdjustment         = "adjustment"
)

// List Exports for API
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var ShipmentStatuses = []string{
	ShipmentStatusPending,
	ShipmentStatusPacked,
	ShipmentStatusShipped,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusReturned,
	ShipmentStatusCanceled,
}

var PaymentMethods = []string{
	PaymentMethodCOD,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodWallet,
	PaymentMethodBank,
}

// prepaidMethods are the card/wallet-class methods that require payment
// before completion and forbid plain cancellation once paid.
var prepaidMethods = map[string]bool{
	PaymentMethodCreditCard: true,
	PaymentMethodDebitCard:  true,
	PaymentMethodWallet:     true,
}

// PaymentRequiresPrepay reports whether the method collects money up front.
func PaymentRequiresPrepay(method string) bool {
	return prepaidMethods[method]
}
