package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("manager123")
	require.NoError(t, err)
	assert.NotEqual(t, "manager123", hash)
	assert.True(t, h.Verify("manager123", hash))
	assert.False(t, h.Verify("manager124", hash))
	assert.False(t, h.Verify("manager123", "not-a-hash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	want := Principal{UserID: 42, Role: models.RoleManager}

	token, exp, err := issuer.Issue(want)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, got.IsManager())
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(Principal{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenIssuer("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		c := claims{
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "eliteshop",
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Parse(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		c := claims{
			Role: "manager",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "eliteshop",
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Parse(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPrincipalContext(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Authenticated())

	ctx := WithPrincipal(context.Background(), Principal{UserID: 3, Role: models.RoleUser})
	p := FromContext(ctx)
	assert.True(t, p.Authenticated())
	assert.False(t, p.IsManager())
	assert.False(t, Principal{Role: models.RoleManager}.IsManager())
}
