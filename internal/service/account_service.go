package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/cache"
	"github.com/Cheertaboi/eliteshop/internal/metrics"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type AccountService struct {
	store           repository.Store
	hasher          PasswordHasher
	coupons         *cache.CouponBook
	startingBalance decimal.Decimal
	metrics         *metrics.Metrics
	log             *slog.Logger
}

func NewAccountService(
	store repository.Store,
	hasher PasswordHasher,
	coupons *cache.CouponBook,
	startingBalance decimal.Decimal,
	m *metrics.Metrics,
	log *slog.Logger,
) *AccountService {
	return &AccountService{
		store:           store,
		hasher:          hasher,
		coupons:         coupons,
		startingBalance: startingBalance,
		metrics:         m,
		log:             log,
	}
}

func (s *AccountService) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return models.User{}, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		Username:     reg.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Balance:      s.startingBalance,
		Address:      reg.Address,
	}
	err = s.store.Update(ctx, func(r repository.Repos) error {
		return r.Users.Create(ctx, &u)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, models.Invalid("username", "already taken")
	}
	if err != nil {
		return models.User{}, err
	}

	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate does not reveal whether the username exists.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	var u models.User
	err := s.store.View(ctx, func(r repository.Repos) error {
		var err error
		u, err = r.Users.GetByUsername(ctx, username)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureManager creates the manager account unless the username already exists.
func (s *AccountService) EnsureManager(ctx context.Context, username, password string) (models.User, bool, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, false, err
	}

	var u models.User
	created := false
	err = s.store.Update(ctx, func(r repository.Repos) error {
		created = false
		existing, err := r.Users.GetByUsername(ctx, username)
		if err == nil {
			u = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		u = models.User{
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleManager,
			Balance:      decimal.Zero,
		}
		created = true
		return r.Users.Create(ctx, &u)
	})
	if err != nil {
		return models.User{}, false, err
	}
	return u, created, nil
}

type Profile struct {
	User   models.User    `json:"user"`
	Orders []models.Order `json:"orders"`
}

func (s *AccountService) Profile(ctx context.Context, p auth.Principal) (Profile, error) {
	if err := requireUser(p); err != nil {
		return Profile{}, err
	}

	var prof Profile
	err := s.store.View(ctx, func(r repository.Repos) error {
		u, err := r.Users.GetByID(ctx, p.UserID)
		if err != nil {
			return notFound(err, "user", p.UserID)
		}
		orders, err := r.Orders.ListByUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		prof = Profile{User: u, Orders: orders}
		return nil
	})
	return prof, err
}

// RedeemCoupon credits the coupon's amount to the caller. Codes are reusable;
// no redemption history is kept.
func (s *AccountService) RedeemCoupon(ctx context.Context, p auth.Principal, code string) (models.Redemption, error) {
	if err := requireUser(p); err != nil {
		return models.Redemption{}, err
	}

	code = strings.TrimSpace(code)
	amount, ok := s.coupons.Get(code)
	if !ok {
		s.metrics.ObserveCoupon("invalid")
		return models.Redemption{}, ErrInvalidCoupon
	}

	var newBalance decimal.Decimal
	err := s.store.Update(ctx, func(r repository.Repos) error {
		u, err := r.Users.LockByID(ctx, p.UserID)
		if err != nil {
			return notFound(err, "user", p.UserID)
		}
		newBalance = u.Balance.Add(amount)
		return r.Users.UpdateBalance(ctx, u.ID, newBalance)
	})
	if err != nil {
		s.metrics.ObserveCoupon("error")
		return models.Redemption{}, err
	}

	s.metrics.ObserveCoupon("success")
	s.log.Info("coupon redeemed", "user_id", p.UserID, "code", code, "amount", amount.StringFixed(2))
	return models.Redemption{Code: code, Credited: amount, NewBalance: newBalance}, nil
}
