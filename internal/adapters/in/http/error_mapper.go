package http

import (
	"errors"
	"net/http"

	"shipment/internal/core/domain/services"
	"shipment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// respondError maps workflow errors onto HTTP statuses: field validation
// failures are 422 with the per-field mapping, state gates and the postal
// code guard are 409, upstream trouble is 502 or 503, and malformed input
// is 400.
func respondError(c echo.Context, err error) error {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "validation failed",
			Fields:  validationErr.Fields,
		})
	}

	var mismatchErr *services.ZipMismatchError
	if errors.As(err, &mismatchErr) {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: mismatchErr.Error(),
		})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrRateLimited):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    http.StatusServiceUnavailable,
			Message: "service busy, try again later",
		})
	case errors.Is(err, errs.ErrTransient):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    http.StatusBadGateway,
			Message: "upstream service failed",
		})
	case errors.Is(err, errs.ErrAuth):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    http.StatusBadGateway,
			Message: "upstream authentication failed",
		})
	case errors.Is(err, errs.ErrValueIsInvalid):
		// Guarded state transitions surface here: the session exists but
		// is not in a state that admits the operation.
		return c.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return c.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
