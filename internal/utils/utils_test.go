package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSerialKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key, err := GenerateSerialKey("EXC")
		require.NoError(t, err)
		assert.True(t, domain.IsValidSerialKey(key), "key %q has wrong shape", key)
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestGenerateSerialKey_Prefix(t *testing.T) {
	key, err := GenerateSerialKey(" skp ")
	require.NoError(t, err)
	assert.Regexp(t, `^SKP-[A-Z0-9]{8}$`, key)

	_, err = GenerateSerialKey("")
	assert.Error(t, err)
	_, err = GenerateSerialKey("EX1")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100", FormatAmount(decimal.RequireFromString("100")))
	assert.Equal(t, "12.50", FormatAmount(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.33", FormatAmount(decimal.RequireFromString("0.333333")))
	assert.Equal(t, "1", FormatAmount(decimal.RequireFromString("0.999")))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "61.50", FormatRate(decimal.RequireFromString("61.5")))
	assert.Equal(t, "0.00", FormatRate(decimal.Zero))
}

func TestFormatGrouped(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"999.999":    "1,000.00",
		"8950":       "8,950.00",
		"123456.7":   "123,456.70",
		"1234567.89": "1,234,567.89",
		"-6150":      "-6,150.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatGrouped(decimal.RequireFromString(in)), in)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	_, err = HashPassword("abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "ana", "OPERATOR", "secret", time.Hour, "exchange-office")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "OPERATOR", claims.Role)
	assert.Equal(t, "exchange-office", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateJWT("user-1", "ana", "OPERATOR", "secret", -time.Minute, "exchange-office")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret")
	assert.Error(t, err)
}
