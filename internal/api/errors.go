package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/preset"
)

// APIError is the wire format for all error responses.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewBadRequestError returns a 400 error for malformed requests.
func NewBadRequestError(message, details string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message, Details: details}
}

// NewClassificationError returns a 422 error for category/subtype/option
// combinations outside the preset table.
func NewClassificationError(details string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "INVALID_CLASSIFICATION",
		Message: "door classification is not supported",
		Details: details,
	}
}

// NewGeometryError returns a 422 error for inputs that derive to an
// impossible drawing.
func NewGeometryError(details string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "DEGENERATE_GEOMETRY",
		Message: "measurements produce degenerate geometry",
		Details: details,
	}
}

// NewInternalError returns a 500 error.
func NewInternalError(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message}
}

// mapDomainError translates sentinel errors from the engine layers into
// API errors; anything unrecognized becomes a 500.
func mapDomainError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, preset.ErrInvalidClassification):
		return NewClassificationError(err.Error())
	case errors.Is(err, geometry.ErrDegenerateGeometry):
		return NewGeometryError(err.Error())
	case errors.Is(err, document.ErrSerialization):
		return NewInternalError(err.Error())
	default:
		return NewInternalError("internal server error")
	}
}

// ErrorHandler renders every error as an APIError JSON body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		msg, ok := e.Message.(string)
		if !ok {
			msg = http.StatusText(e.Code)
		}
		apiErr = &APIError{Status: e.Code, Code: "HTTP_ERROR", Message: msg}
	default:
		apiErr = mapDomainError(err)
	}

	if jsonErr := c.JSON(apiErr.Status, apiErr); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
