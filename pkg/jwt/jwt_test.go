package jwt

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(42, "a@b.c", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestManager_PayloadFieldsReadableByClient(t *testing.T) {
	pair, err := NewManager("secret", time.Hour, time.Hour).GenerateToken(7, "a@b.c", "alice")
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, float64(7), payload["id"])
	assert.Equal(t, "a@b.c", payload["email"])
	assert.Equal(t, "alice", payload["username"])
	assert.Equal(t, "access", payload["token_type"])
}

func TestManager_RefreshTokenIsNotAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(1, "a@b.c", "alice")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateToken(1, "", "")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestManager_WrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "", "")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = NewManager("secret-a", time.Hour, time.Hour).ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(7, "old@b.c", "old")
	require.NoError(t, err)

	lookup := func(userID uint) (string, string, error) {
		assert.Equal(t, uint(7), userID)
		return "new@b.c", "new", nil
	}

	access, err := m.RefreshAccessToken(pair.RefreshToken, lookup)
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "new@b.c", claims.Email)

	// Access Token不能用来刷新
	_, err = m.RefreshAccessToken(pair.AccessToken, lookup)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_RemainingTTL(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateToken(1, "", "")
	require.NoError(t, err)
	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(20 * time.Minute) }
	ttl := m.RemainingTTL(claims)
	assert.InDelta(t, (40 * time.Minute).Seconds(), ttl.Seconds(), 1)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	assert.Zero(t, m.RemainingTTL(claims))
}
