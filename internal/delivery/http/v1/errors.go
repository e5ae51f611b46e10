package v1

import (
	"errors"
	"net/http"

	"github.com/Orhanguezel/metahub-backend-sub001/internal/domain"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

// writeDomainError maps sentinel errors onto HTTP status codes so handlers
// never switch on error strings.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPreconditionFailed),
		errors.Is(err, domain.ErrCannotCompleteUnpaid),
		errors.Is(err, domain.ErrCannotCancelPaidOrder):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrVariantRequired),
		errors.Is(err, domain.ErrModifierGroupNotFound),
		errors.Is(err, domain.ErrModifierOptionInvalid),
		errors.Is(err, domain.ErrModifierRequiredMissed),
		errors.Is(err, domain.ErrModifierMinNotMet),
		errors.Is(err, domain.ErrModifierMaxExceeded),
		errors.Is(err, domain.ErrCurrencyMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrItemMisconfigured),
		errors.Is(err, domain.ErrMethodMisconfigured),
		errors.Is(err, domain.ErrNegativePrice):
		status = http.StatusUnprocessableEntity
	}
	utils.WriteError(w, status, err.Error())
}
