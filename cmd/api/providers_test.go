package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/internal/infrastructure/event"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/litshop/internal/interface/http/dto"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Storage:  config.StorageConfig{Driver: "memory"},
		JWT:      config.JWTConfig{Secret: "test", AccessTokenExpire: time.Hour, RefreshTokenExpire: 24 * time.Hour},
		Purchase: config.PurchaseConfig{Timeout: time.Second, LockWait: time.Second, MaxRetries: 1},
		RateLimit: config.RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
	}
}

func TestProvideStorage(t *testing.T) {
	s, cleanup, err := provideStorage(memoryConfig())
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, s.Books)
	assert.NotNil(t, s.TxManager)

	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"
	_, _, err = provideStorage(cfg)
	assert.Error(t, err)
}

func TestOptionalInfrastructure(t *testing.T) {
	cfg := memoryConfig()

	client, cleanup, err := provideRedis(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, client)

	_, ok := provideSessionStore(nil).(*memory.SessionStore)
	assert.True(t, ok)

	pub, cleanup2, err := provideEventPublisher(cfg)
	require.NoError(t, err)
	defer cleanup2()
	assert.IsType(t, event.NopPublisher{}, pub)

	assert.NotNil(t, provideRateLimiter(cfg))
	cfg.RateLimit.Enabled = false
	assert.Nil(t, provideRateLimiter(cfg))
}

func TestInitializeApp_Memory(t *testing.T) {
	require.NoError(t, dto.RegisterValidators())

	app, cleanup, err := InitializeApp(memoryConfig())
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health-check", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
