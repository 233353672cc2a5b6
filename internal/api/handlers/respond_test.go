package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{models.Invalid("name", "required"), http.StatusBadRequest, "validation_failed"},
		{service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{&service.NotFoundError{Entity: "order", ID: 3}, http.StatusNotFound, "not_found"},
		{service.ErrEmptyCart, http.StatusConflict, "empty_cart"},
		{&service.InsufficientFundsError{}, http.StatusConflict, "insufficient_funds"},
		{&service.StockUnavailableError{ProductID: 1}, http.StatusConflict, "stock_unavailable"},
		{service.ErrInvalidCoupon, http.StatusBadRequest, "invalid_coupon"},
		{fmt.Errorf("checkout: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "timeout"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), log, fmt.Errorf("wrapped: %w", tc.err))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		slog.New(slog.NewTextHandler(io.Discard, nil)), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestDecodeOptionalJSON(t *testing.T) {
	chunked := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/cart/checkout", strings.NewReader(body))
		req.ContentLength = -1
		return req
	}

	var req CheckoutRequest
	rec := httptest.NewRecorder()
	assert.True(t, decodeOptionalJSON(rec, chunked(""), &req))
	assert.Empty(t, req.Address)

	assert.True(t, decodeOptionalJSON(rec, chunked(`{"address":"2 Side St"}`), &req))
	assert.Equal(t, "2 Side St", req.Address)

	rec = httptest.NewRecorder()
	assert.False(t, decodeOptionalJSON(rec, chunked("{"), &req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	assert.False(t, decodeJSON(rec, chunked(""), &req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
