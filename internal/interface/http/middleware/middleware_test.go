package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBlacklist map[string]bool

func (f fakeBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return f[token], nil
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := manager.GenerateToken(42, "bob@example.com", "bob")
	require.NoError(t, err)
	revoked, err := manager.GenerateToken(43, "eve@example.com", "eve")
	require.NoError(t, err)

	auth := NewAuthMiddleware(manager, fakeBlacklist{revoked.AccessToken: true})
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "token": GetAccessToken(c)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"缺少Header", "", http.StatusUnauthorized},
		{"格式错误", "Token " + pair.AccessToken, http.StatusUnauthorized},
		{"Refresh Token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"已登出", "Bearer " + revoked.AccessToken, http.StatusUnauthorized},
		{"签名错误", "Bearer " + pair.AccessToken + "x", http.StatusUnauthorized},
		{"正常", "Bearer " + pair.AccessToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user_id":42`)
			}
		})
	}
}

func TestUserRateLimiter(t *testing.T) {
	l := NewUserRateLimiter(0.001, 2)
	assert.True(t, l.Allow("user:1"))
	assert.True(t, l.Allow("user:1"))
	assert.False(t, l.Allow("user:1"))
	assert.True(t, l.Allow("user:2"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		Enabled:          true,
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("允许的Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("预检请求", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/books", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := serve(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("不允许的Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Origin", "http://evil.example")
		assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
	})

	t.Run("同源请求不处理", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestLogger_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), RequestLogger(time.Second))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := serve(r, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
