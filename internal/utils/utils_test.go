package utils

import (
	"testing"
	"time"

	"gizmohub_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))
	assert.NotContains(t, hash, "s3cret!")

	ok, err := VerifyPassword("s3cret!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ between hashes")
}

func TestVerifyPasswordBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := VerifyPassword("admin123", string(raw))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("admin124", string(raw))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsPlaintext(t *testing.T) {
	ok, err := VerifyPassword("password", "password")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour)

	token, claims, err := issuer.Generate(models.User{ID: 7, Email: "ana@example.com", Role: models.RoleCustomer})
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.UserID)
	assert.Equal(t, models.RoleCustomer, parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestTokenIssuerRejectsExpiredAndForeign(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	token, _, err := issuer.Generate(models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign := NewTokenIssuer("another-secret-another-secret-xx", time.Hour)
	_, err = foreign.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateCardNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"4111 1111 1111 1111", "4111111111111111", nil},
		{"4111-1111-1111-1111", "4111111111111111", nil},
		{"4111 1111 1111", "", ErrCardLength},
		{"4111 1111 1111 1111 123", "", ErrCardLength},
		{"4111 1111 1111 111a", "", ErrCardNotNumeric},
	}
	for _, tc := range cases {
		got, err := ValidateCardNumber(tc.in)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, "1111", CardLast4(got))
	}
}

func TestOrderConfirmationHTMLEscapes(t *testing.T) {
	order := models.Order{
		ID:     12,
		Status: models.OrderStatusCompleted,
		Total:  decimal.RequireFromString("27.00"),
		Items: []models.OrderItem{
			{ProductName: "<b>Laptop</b>", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
	}
	out := OrderConfirmationHTML(order, models.Payment{PaymentMethod: "gcash", TransactionRef: "local_x"})

	assert.Contains(t, out, "#12")
	assert.Contains(t, out, "&lt;b&gt;Laptop&lt;/b&gt;")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "27.00")
}
