package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
)

// ErrorBody is the JSON payload returned for failed requests.
type ErrorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// StatusFor maps console errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case console.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrDeclined):
		return http.StatusConflict
	case errors.Is(err, console.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, console.ErrUnknownSortKey), errors.Is(err, console.ErrUnknownFilter), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorBody builds the response payload for err.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var verr *console.ValidationError
	if errors.As(err, &verr) {
		body.Message = verr.Message()
		body.Fields = verr.Fields
	}
	return body
}
