package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/report"
	"github.com/Cheertaboi/eliteshop/internal/service"
)

// multipart parts above this size spill to temp files
const multipartMemory = 8 << 20

// SalesReporter produces the per-day sales totals shown on the dashboard.
type SalesReporter interface {
	SalesReport(ctx context.Context, p auth.Principal) ([]models.DailySales, error)
}

type DashboardResponse struct {
	Products    []models.Product      `json:"products"`
	Orders      []models.OrderSummary `json:"orders"`
	Sales       []models.DailySales   `json:"sales,omitempty"`
	SalesTotal  *decimal.Decimal      `json:"sales_total,omitempty"`
	ReportError string                `json:"report_error,omitempty"`
}

type ManagerHandler struct {
	catalog   *service.CatalogService
	orders    *service.OrderService
	reports   SalesReporter
	maxUpload int64
	log       *slog.Logger
}

func NewManagerHandler(
	catalog *service.CatalogService,
	orders *service.OrderService,
	reports SalesReporter,
	maxUpload int64,
	log *slog.Logger,
) *ManagerHandler {
	return &ManagerHandler{catalog: catalog, orders: orders, reports: reports, maxUpload: maxUpload, log: log}
}

// Dashboard handles GET /manager. A failing sales report does not fail the page.
func (h *ManagerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := auth.FromContext(ctx)

	products, err := h.catalog.List(ctx, p)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	orders, err := h.orders.ListAll(ctx, p)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	resp := DashboardResponse{Products: products, Orders: orders}
	sales, err := h.salesReport(ctx, p)
	if err != nil {
		h.log.Error("sales report failed", "err", err)
		resp.ReportError = "sales report unavailable"
	} else {
		total := report.GrandTotal(sales)
		resp.Sales = sales
		resp.SalesTotal = &total
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ManagerHandler) salesReport(ctx context.Context, p auth.Principal) (sales []models.DailySales, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sales report panicked: %v", rec)
		}
	}()
	return h.reports.SalesReport(ctx, p)
}

// Sales handles GET /manager/sales
func (h *ManagerHandler) Sales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.reports.SalesReport(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sales": sales,
		"total": report.GrandTotal(sales),
	})
}

// AddProduct handles POST /manager/products (multipart/form-data).
func (h *ManagerHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := auth.FromContext(ctx)
	// reject before buffering an upload nobody may store
	switch {
	case !p.Authenticated():
		writeServiceError(w, r, h.log, service.ErrUnauthenticated)
		return
	case !p.IsManager():
		writeServiceError(w, r, h.log, service.ErrForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeServiceError(w, r, h.log, models.Invalid("image", "file too large"))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "expected multipart/form-data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in, err := newProductFromForm(r)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeServiceError(w, r, h.log, models.Invalid("image", "required"))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	defer file.Close()

	prod, err := h.catalog.AddProduct(ctx, p, in, header.Filename, file)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, prod)
}

func newProductFromForm(r *http.Request) (models.NewProduct, error) {
	in := models.NewProduct{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	price := strings.TrimSpace(r.FormValue("price"))
	if price == "" {
		return in, models.Invalid("price", "required")
	}
	var err error
	if in.Price, err = decimal.NewFromString(price); err != nil {
		return in, models.Invalid("price", "must be a number")
	}

	if s := strings.TrimSpace(r.FormValue("stock")); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			return in, models.Invalid("stock", "must be an integer")
		}
		in.Stock = &stock
	}
	return in, nil
}

// DeleteProduct handles DELETE /manager/products/{id}
func (h *ManagerHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders handles GET /manager/orders
func (h *ManagerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /manager/orders/{id}
func (h *ManagerHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	order, err := h.orders.Get(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /manager/orders/{id}
func (h *ManagerHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if err := h.orders.DeleteOrder(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
