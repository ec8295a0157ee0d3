package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_BlacklistExpires(t *testing.T) {
	s := NewSessionStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.AddToBlacklist(ctx, "tok", time.Minute))
	revoked, err := s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSessionStore_ZeroTTLIgnored(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, s.AddToBlacklist(ctx, "tok", 0))
	revoked, _ := s.IsInBlacklist(ctx, "tok")
	assert.False(t, revoked)
}
