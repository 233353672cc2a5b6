package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Cheertaboi/eliteshop/internal/api/handlers"
	"github.com/Cheertaboi/eliteshop/internal/api/middleware"
	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/metrics"
	"github.com/Cheertaboi/eliteshop/internal/service"
)

const requestTimeout = 30 * time.Second

type Deps struct {
	Accounts       *service.AccountService
	Catalog        *service.CatalogService
	Cart           *service.CartService
	Checkout       *service.CheckoutService
	Orders         *service.OrderService
	Tokens         *auth.TokenIssuer
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	MaxUploadBytes int64

	// Reports defaults to Orders.
	Reports handlers.SalesReporter
}

// NewRouter builds the HTTP router for the storefront
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.Authenticate(d.Tokens))

	reports := d.Reports
	if reports == nil {
		reports = d.Orders
	}

	account := handlers.NewAccountHandler(d.Accounts, d.Tokens, d.Logger)
	shop := handlers.NewShopHandler(d.Catalog, d.Cart, d.Checkout, d.Logger)
	manager := handlers.NewManagerHandler(d.Catalog, d.Orders, reports, d.MaxUploadBytes, d.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", account.Register)
		r.Post("/login", account.Login)
	})
	r.Get("/me", account.Me)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", shop.ListProducts)
		r.Get("/{id}", shop.GetProduct)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", shop.ViewCart)
		r.Post("/items", shop.AddItem)
		r.Delete("/items/{id}", shop.RemoveItem)
		r.Post("/coupon", account.RedeemCoupon)
		r.Post("/checkout", shop.Checkout)
	})

	// Role checks happen in the services; these routes only group the panel.
	r.Route("/manager", func(r chi.Router) {
		r.Get("/", manager.Dashboard)
		r.Post("/products", manager.AddProduct)
		r.Delete("/products/{id}", manager.DeleteProduct)
		r.Get("/orders", manager.ListOrders)
		r.Get("/orders/{id}", manager.GetOrder)
		r.Delete("/orders/{id}", manager.DeleteOrder)
		r.Get("/sales", manager.Sales)
	})

	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
