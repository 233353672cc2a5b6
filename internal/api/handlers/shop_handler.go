package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/service"
)

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
}

type CheckoutRequest struct {
	Address string `json:"address"`
}

// ShopHandler serves the buyer-facing catalog and cart.
type ShopHandler struct {
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
	log      *slog.Logger
}

func NewShopHandler(catalog *service.CatalogService, cart *service.CartService, checkout *service.CheckoutService, log *slog.Logger) *ShopHandler {
	return &ShopHandler{catalog: catalog, cart: cart, checkout: checkout, log: log}
}

// ListProducts handles GET /products
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	p, err := h.catalog.Get(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ViewCart handles GET /cart
func (h *ShopHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /cart/items
func (h *ShopHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := h.cart.Add(r.Context(), auth.FromContext(r.Context()), req.ProductID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// RemoveItem handles DELETE /cart/items/{id}
func (h *ShopHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if err := h.cart.Remove(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /cart/checkout. An empty body means "use my saved address".
func (h *ShopHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	order, err := h.checkout.Checkout(r.Context(), auth.FromContext(r.Context()), req.Address)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
