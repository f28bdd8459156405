package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

var errorStatus = map[string]int{
	model.ErrCodeEmptyCart:               http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:         http.StatusBadRequest,
	model.ErrCodeMissingField:            http.StatusBadRequest,
	model.ErrCodeInvalidJSON:             http.StatusBadRequest,
	model.ErrCodeInvalidStatus:           http.StatusBadRequest,
	model.ErrCodeProductUnavailable:      http.StatusConflict,
	model.ErrCodeInsufficientStock:       http.StatusConflict,
	model.ErrCodeInvalidStatusTransition: http.StatusConflict,
	model.ErrCodeAuthenticationRequired:  http.StatusUnauthorized,
	model.ErrCodeCommitFailed:            http.StatusServiceUnavailable,
	model.ErrCodeProductNotFound:         http.StatusNotFound,
	model.ErrCodeOrderNotFound:           http.StatusNotFound,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes err as an error response. Domain errors map to their
// status; anything else is logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	requestID := chimw.GetReqID(r.Context())

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := errorStatus[domainErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}

		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(err).
			Str("code", domainErr.Code).
			Int("status", status).
			Str("request_id", requestID).
			Msg("request failed")

		writeJSON(w, status, model.ErrorResponse{
			Error:         domainErr.Code,
			Message:       domainErr.Message,
			ProductID:     domainErr.ProductID,
			Field:         domainErr.Field,
			CorrelationID: requestID,
		})
		return
	}

	logger.Error().
		Err(err).
		Int("status", http.StatusInternalServerError).
		Str("request_id", requestID).
		Msg("handler error")

	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:         model.ErrCodeInternalError,
		Message:       "internal server error",
		CorrelationID: requestID,
	})
}

// decodeJSON reads the request body into dst. A number that does not fit a
// quantity field is an invalid quantity; any other decode failure is invalid JSON.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "quantity" {
			return model.ErrInvalidQuantity
		}
		return &model.DomainError{
			Code:    model.ErrCodeInvalidJSON,
			Message: model.ErrInvalidJSON.Message,
			Err:     err,
		}
	}
	return nil
}
