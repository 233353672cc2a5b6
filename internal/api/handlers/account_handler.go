package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/service"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type CouponRequest struct {
	Code string `json:"code"`
}

type AccountHandler struct {
	accounts *service.AccountService
	tokens   *auth.TokenIssuer
	log      *slog.Logger
}

func NewAccountHandler(accounts *service.AccountService, tokens *auth.TokenIssuer, log *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, tokens: tokens, log: log}
}

// Register handles POST /auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.accounts.Register(r.Context(), models.Registration{
		Username: req.Username,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	token, exp, err := h.tokens.Issue(auth.Principal{UserID: u.ID, Role: u.Role})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp, User: u})
}

// Me handles GET /me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	prof, err := h.accounts.Profile(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// RedeemCoupon handles POST /cart/coupon
func (h *AccountHandler) RedeemCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	red, err := h.accounts.RedeemCoupon(r.Context(), auth.FromContext(r.Context()), req.Code)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, red)
}
