package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func TestSignAndParse(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := m.Sign("user-1", true)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IsStaff)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	a, _ := NewManager(testSecret, time.Hour)
	b, _ := NewManager("another-secret-value!", time.Hour)

	token, err := a.Sign("user-1", true)
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m, _ := NewManager(testSecret, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Sign("user-1", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	m, _ := NewManager(testSecret, time.Hour)
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: "x"})
	raw, err := token.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	_, err := NewManager("short", time.Hour)
	assert.Error(t, err)
}
