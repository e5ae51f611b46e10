package domain

import "errors"

// Sentinel errors with stable keys. Handlers map these to HTTP statuses;
// usecases wrap them with context via fmt.Errorf("%w: ...").
var (
	ErrNotFound           = errors.New("not_found")
	ErrPreconditionFailed = errors.New("precondition_failed")

	// Pricing
	ErrItemNotFound           = errors.New("menu_item_not_found")
	ErrItemMisconfigured      = errors.New("menu_item_misconfigured")
	ErrVariantRequired        = errors.New("variant_required")
	ErrModifierGroupNotFound  = errors.New("modifier_group_not_found")
	ErrModifierOptionInvalid  = errors.New("modifier_option_invalid")
	ErrModifierRequiredMissed = errors.New("modifier_required_missing")
	ErrModifierMinNotMet      = errors.New("modifier_min_not_met")
	ErrModifierMaxExceeded    = errors.New("modifier_max_exceeded")
	ErrCurrencyMismatch       = errors.New("currency_mismatch")
	ErrNegativePrice          = errors.New("negative_price")

	// Shipping
	ErrMethodMisconfigured = errors.New("shipping_method_misconfigured")

	// State transitions
	ErrInvalidTransition     = errors.New("invalid_transition")
	ErrCannotCompleteUnpaid  = errors.New("cannot_complete_unpaid")
	ErrCannotCancelPaidOrder = errors.New("cannot_cancel_paid_order")
)
