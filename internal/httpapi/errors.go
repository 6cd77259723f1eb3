package httpapi

import (
	"context"
	"errors"
	"net/http"

	"myfood-be/internal/catalog"
	"myfood-be/internal/checkout"
	"myfood-be/internal/logger"
	appmw "myfood-be/internal/middleware"
	"myfood-be/internal/order"
	"myfood-be/internal/slot"
	"myfood-be/internal/user"
	"myfood-be/internal/utils"

	"go.uber.org/zap"
)

const (
	ReasonUserNotFound     = "USER_NOT_FOUND"
	ReasonLineItemNotFound = "LINE_ITEM_NOT_FOUND"
	ReasonNotConfirmed     = "NOT_CONFIRMED"
	ReasonValidation       = "VALIDATION_FAILED"
	ReasonTimeout          = "TIMEOUT"
)

// validationError marks a request the handler could not accept as given.
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }

func invalid(err error) error {
	return &validationError{err: err}
}

type errorMapping struct {
	err    error
	status int
	reason string
}

// errorTable is scanned in order; the first errors.Is match wins.
var errorTable = []errorMapping{
	{checkout.ErrOrderNotFound, http.StatusNotFound, checkout.ReasonOrderNotFound},
	{checkout.ErrSlotNotFound, http.StatusNotFound, checkout.ReasonSlotNotFound},
	{catalog.ErrDishNotFound, http.StatusNotFound, checkout.ReasonDishNotFound},
	{catalog.ErrMenuNotFound, http.StatusNotFound, checkout.ReasonMenuNotFound},
	{user.ErrUserNotFound, http.StatusNotFound, ReasonUserNotFound},
	{order.ErrLineItemNotFound, http.StatusNotFound, ReasonLineItemNotFound},

	{checkout.ErrAlreadyConfirmed, http.StatusConflict, checkout.ReasonAlreadyConfirmed},
	{checkout.ErrSlotFull, http.StatusConflict, checkout.ReasonSlotFull},
	{order.ErrNotConfirmed, http.StatusConflict, ReasonNotConfirmed},
	{checkout.ErrEmptyOrder, http.StatusUnprocessableEntity, checkout.ReasonEmptyOrder},

	{order.ErrInvalidLineItem, http.StatusBadRequest, checkout.ReasonInvalidLineItem},
	{checkout.ErrNegativePrice, http.StatusBadRequest, checkout.ReasonInvalidPrice},
	{catalog.ErrNegativePrice, http.StatusBadRequest, checkout.ReasonInvalidPrice},
	{catalog.ErrInvalidCategory, http.StatusBadRequest, ReasonValidation},
	{catalog.ErrInvalidAttribute, http.StatusBadRequest, ReasonValidation},
	{catalog.ErrEmptyName, http.StatusBadRequest, ReasonValidation},
	{catalog.ErrMissingCourse, http.StatusBadRequest, ReasonValidation},
	{slot.ErrInvalidTime, http.StatusBadRequest, ReasonValidation},
	{slot.ErrInvalidLimit, http.StatusBadRequest, ReasonValidation},
	{order.ErrInvalidDate, http.StatusBadRequest, ReasonValidation},

	{context.DeadlineExceeded, http.StatusServiceUnavailable, ReasonTimeout},
}

func classify(err error) (int, string) {
	var verr *validationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, ReasonValidation
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.reason
		}
	}
	return http.StatusInternalServerError, checkout.ReasonInternal
}

func (a *API) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, reason := classify(err)
	log := logger.FromCtx(r.Context()).With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("reason", reason),
	)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		if status == http.StatusInternalServerError {
			message = "the server encountered a problem"
		}
	} else {
		log.Info("request rejected", zap.Error(err))
	}
	utils.WriteJSONError(w, status, reason, message)
}

func forbidden(w http.ResponseWriter) {
	utils.WriteJSONError(w, http.StatusForbidden, appmw.ReasonForbidden, "not allowed to act on this resource")
}
