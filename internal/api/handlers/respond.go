package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/service"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResponse{Error: errCode, Message: msg})
}

// writeServiceError maps a service error onto its HTTP status and error code.
// Anything unrecognised is logged and reported as internal_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		invalid *models.ValidationError
		missing *service.NotFoundError
		funds   *service.InsufficientFundsError
		stock   *service.StockUnavailableError
	)

	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: invalid.Error(),
			Details: map[string]any{"field": invalid.Field},
		})
	case errors.Is(err, service.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", `Bearer realm="eliteshop"`)
		writeError(w, http.StatusUnauthorized, "unauthenticated", "login required")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "manager role required")
	case errors.As(err, &missing):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: missing.Error(),
			Details: map[string]any{"entity": missing.Entity, "id": missing.ID},
		})
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.As(err, &funds):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "insufficient_funds",
			Message: funds.Error(),
			Details: map[string]any{"balance": funds.Balance, "total": funds.Total},
		})
	case errors.As(err, &stock):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "stock_unavailable",
			Message: stock.Error(),
			Details: map[string]any{
				"product_id": stock.ProductID,
				"requested":  stock.Requested,
				"available":  stock.Available,
			},
		})
	case errors.Is(err, service.ErrInvalidCoupon):
		writeError(w, http.StatusBadRequest, "invalid_coupon", "invalid coupon code")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "timeout", "request timed out")
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return decodeBody(w, r, v, false)
}

// decodeOptionalJSON is decodeJSON for endpoints where an empty body means
// "no arguments", whether or not the client sent a Content-Length.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	return decodeBody(w, r, v, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
	if err == nil || allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
	return false
}

func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.Invalid(name, "must be a positive integer")
	}
	return id, nil
}
