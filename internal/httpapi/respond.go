package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/shopapi"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string             `json:"error"`
	Code    string             `json:"code,omitempty"`
	Details string             `json:"details,omitempty"`
	Fields  []order.FieldError `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleError maps service errors onto HTTP responses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *order.ValidationError
		apiErr *shopapi.APIError
	)

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  http.StatusText(http.StatusUnprocessableEntity),
			Code:   "invalid_form",
			Fields: verr.Fields,
		})
	case errors.Is(err, cart.ErrBusy), errors.Is(err, order.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, cart.ErrQuantityFloor):
		respondError(w, http.StatusConflict, "quantity_floor", err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, product.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, order.ErrCartEmpty):
		respondError(w, http.StatusBadRequest, "cart_empty", err.Error())
	case errors.Is(err, cart.ErrCartItemNotFound):
		respondError(w, http.StatusNotFound, "cart_item_not_found", err.Error())
	case errors.Is(err, product.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, shopapi.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "upstream_unavailable", err.Error())
	case errors.As(err, &apiErr):
		respondError(w, http.StatusBadGateway, "upstream_error", apiErr.Message)
	default:
		logger.FromCtx(r.Context()).Error("unhandled error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal", "unexpected error")
	}
}
