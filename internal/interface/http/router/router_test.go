package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/litshop/internal/application/book"
	appgenre "github.com/xiebiao/litshop/internal/application/genre"
	apptx "github.com/xiebiao/litshop/internal/application/transaction"
	appuser "github.com/xiebiao/litshop/internal/application/user"
	"github.com/xiebiao/litshop/internal/domain/book"
	"github.com/xiebiao/litshop/internal/domain/user"
	"github.com/xiebiao/litshop/internal/infrastructure/config"
	"github.com/xiebiao/litshop/internal/infrastructure/event"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/litshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/litshop/internal/interface/http/dto"
	"github.com/xiebiao/litshop/internal/interface/http/handler"
	"github.com/xiebiao/litshop/internal/interface/http/middleware"
	"github.com/xiebiao/litshop/pkg/jwt"
)

// envelope 统一响应
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageData struct {
	List     json.RawMessage `json:"list"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type testServer struct {
	engine *gin.Engine
}

// newTestServer 内存后端上组装完整路由,与cmd/api的装配一致
func newTestServer(t *testing.T, limiter *middleware.UserRateLimiter) *testServer {
	t.Helper()
	require.NoError(t, dto.RegisterValidators())

	cfg := &config.Config{Server: config.ServerConfig{Mode: "test"}}

	store := memory.NewStore(time.Second)
	books := memory.NewBookRepository(store)
	genres := memory.NewGenreRepository(store)
	users := memory.NewUserRepository(store)
	txs := memory.NewTransactionRepository(store)
	txManager := memory.NewTxManager(store)
	sessions := memory.NewSessionStore()
	stats := redis.NewStatsCache(nil, 0)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	userService := user.NewServiceWithCost(users, bcrypt.MinCost)
	bookService := book.NewService(books)

	h := Handlers{
		Auth: handler.NewAuthHandler(
			appuser.NewRegisterUseCase(userService),
			appuser.NewLoginUseCase(userService, jwtManager, sessions),
			appuser.NewRefreshUseCase(users, jwtManager),
			appuser.NewLogoutUseCase(sessions, jwtManager),
		),
		Book: handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookService, genres, stats),
			appbook.NewUpdateBookUseCase(txManager, bookService, genres, stats),
			appbook.NewDeleteBookUseCase(bookService, stats),
			appbook.NewListBooksUseCase(bookService, genres),
			appbook.NewGetBookUseCase(bookService),
			appbook.NewStatsUseCase(books, stats),
		),
		Genre: handler.NewGenreHandler(appgenre.NewUseCase(genres, books)),
		Transaction: handler.NewTransactionHandler(
			apptx.NewCreateTransactionUseCase(txManager, books, txs, stats, event.NopPublisher{}, apptx.Options{
				Timeout:         5 * time.Second,
				MaxRetries:      3,
				InitialInterval: time.Millisecond,
				MaxInterval:     5 * time.Millisecond,
			}),
			apptx.NewGetTransactionUseCase(txs),
			apptx.NewListTransactionsUseCase(txs),
		),
	}

	return &testServer{engine: New(cfg, h, middleware.NewAuthMiddleware(jwtManager, sessions), limiter)}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// login 注册并登录,返回Access Token
func (s *testServer) login(t *testing.T, name string) string {
	t.Helper()
	email := name + "@example.com"

	w, _ := s.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": name, "email": email, "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(t, http.MethodPost, "/auth/login", gin.H{"email": email, "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data appuser.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func (s *testServer) createGenre(t *testing.T, token, name string) uint {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/genre", gin.H{"name": name}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var g dto.GenreResponse
	require.NoError(t, json.Unmarshal(env.Data, &g))
	return g.ID
}

func (s *testServer) createBook(t *testing.T, token string, genreID uint, title string, price int64, stock int) uint {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/books", gin.H{
		"title": title, "writer": "Tester", "condition": "new",
		"price": price, "stock": stock, "genre_id": genreID,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b dto.BookResponse
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b.ID
}

func (s *testServer) stock(t *testing.T, id uint) int {
	t.Helper()
	w, env := s.do(t, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var b dto.BookResponse
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b.Stock
}

func purchase(items ...gin.H) gin.H {
	return gin.H{"lineItems": items}
}

func line(bookID uint, quantity interface{}) gin.H {
	return gin.H{"bookId": bookID, "quantity": quantity}
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w, env := s.do(t, http.MethodGet, "/health-check", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Hello World!", env.Message)

	w, env = s.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to IT Literature Shop API", env.Message)

	w, env = s.do(t, http.MethodGet, "/no-such-route", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Message)

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestPurchaseFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "buyer")
	genreID := s.createGenre(t, token, "Programming")
	bookID := s.createBook(t, token, genreID, "Go in Action", 50000, 10)

	w, env := s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 4)), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.TransactionResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 4, created.TotalQuantity)
	assert.Equal(t, int64(200000), created.TotalPrice)
	assert.Equal(t, "2000.00", created.TotalPriceDisplay)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Go in Action", created.Items[0].BookTitle)
	assert.Equal(t, 6, s.stock(t, bookID))

	t.Run("重复读取结果一致", func(t *testing.T) {
		_, first := s.do(t, http.MethodGet, "/transactions/"+created.ID, nil, token)
		_, second := s.do(t, http.MethodGet, "/transactions/"+created.ID, nil, token)
		assert.True(t, first.Success)
		assert.JSONEq(t, string(first.Data), string(second.Data))
	})

	t.Run("交易列表", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/transactions?page=1&page_size=10", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		var page pageData
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("他人的交易返回404", func(t *testing.T) {
		other := s.login(t, "other")
		w, _ := s.do(t, http.MethodGet, "/transactions/"+created.ID, nil, other)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("库存不足", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 50)), token)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, 6, s.stock(t, bookID))
	})
}

func TestPurchaseRejections(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "buyer")
	genreID := s.createGenre(t, token, "Programming")
	bookID := s.createBook(t, token, genreID, "Go in Action", 1000, 3)

	tests := []struct {
		name   string
		body   interface{}
		token  string
		status int
	}{
		{"未登录", purchase(line(bookID, 1)), "", http.StatusUnauthorized},
		{"JSON格式错误", `{"lineItems": [`, token, http.StatusBadRequest},
		{"明细为空", purchase(), token, http.StatusUnprocessableEntity},
		{"数量为0", purchase(line(bookID, 0)), token, http.StatusUnprocessableEntity},
		{"数量为负数", purchase(line(bookID, -2)), token, http.StatusUnprocessableEntity},
		{"数量为小数", purchase(line(bookID, 1.5)), token, http.StatusUnprocessableEntity},
		{"图书不存在", purchase(line(9999, 1)), token, http.StatusNotFound},
		{"任意一行库存不足整体失败", purchase(line(bookID, 1), line(bookID, 3)), token, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(t, http.MethodPost, "/transactions", tt.body, tt.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.False(t, env.Success)
		})
	}

	assert.Equal(t, 3, s.stock(t, bookID))

	w, env := s.do(t, http.MethodGet, "/transactions", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var page pageData
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Zero(t, page.Total)
}

func TestConcurrentPurchaseOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "buyer")
	genreID := s.createGenre(t, token, "Programming")
	bookID := s.createBook(t, token, genreID, "Go in Action", 1000, 5)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, _ := s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 3)), token)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, codes)
	assert.Equal(t, 2, s.stock(t, bookID))
}

func TestPatchDuringPurchasesKeepsStock(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin")
	genreID := s.createGenre(t, token, "Programming")
	bookID := s.createBook(t, token, genreID, "Go in Action", 1000, 20)

	const buyers, editors = 20, 10
	var wg sync.WaitGroup
	purchaseCodes := make([]int, buyers)
	patchCodes := make([]int, editors)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, _ := s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 1)), token)
			purchaseCodes[i] = w.Code
		}(i)
	}
	for i := 0; i < editors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, _ := s.do(t, http.MethodPatch, fmt.Sprintf("/books/%d", bookID), gin.H{"price": 2000 + i}, token)
			patchCodes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for _, code := range purchaseCodes {
		assert.Equal(t, http.StatusCreated, code)
	}
	for _, code := range patchCodes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.Zero(t, s.stock(t, bookID))
}

func TestBookAndGenreRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin")
	genreID := s.createGenre(t, token, "Programming")
	bookID := s.createBook(t, token, genreID, "Go in Action", 5900, 10)
	s.createBook(t, token, genreID, "The Go Programming Language", 7900, 0)

	t.Run("写操作需要登录", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/books", gin.H{"title": "x"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/genre/%d", genreID), nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("上架参数校验", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/books", gin.H{
			"title": "Bad", "writer": "x", "isbn": "12", "genre_id": genreID,
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = s.do(t, http.MethodPost, "/books", gin.H{
			"title": "Bad", "writer": "x", "condition": "broken", "genre_id": genreID,
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = s.do(t, http.MethodPost, "/books", gin.H{"title": "Orphan", "writer": "x", "genre_id": 999}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("列表与按分类查询", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/books?keyword=go&sort_by=price_asc", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var page pageData
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(2), page.Total)

		w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/books/genre/%d", genreID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = s.do(t, http.MethodGet, "/books/genre/999", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("库存统计", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/books/stats", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var stats dto.StatsResponse
		require.NoError(t, json.Unmarshal(env.Data, &stats))
		assert.Equal(t, int64(2), stats.TotalBooks)
		assert.Equal(t, int64(1), stats.InStock)
		assert.Equal(t, int64(10), stats.TotalStock)
		assert.Equal(t, int64(1), stats.Genres)
	})

	t.Run("局部更新", func(t *testing.T) {
		w, env := s.do(t, http.MethodPatch, fmt.Sprintf("/books/%d", bookID), gin.H{"price": 6900}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var b dto.BookResponse
		require.NoError(t, json.Unmarshal(env.Data, &b))
		assert.Equal(t, int64(6900), b.Price)
		assert.Equal(t, "69.00", b.PriceDisplay)
		assert.Equal(t, "Go in Action", b.Title)
	})

	t.Run("分类下有图书时不能删除", func(t *testing.T) {
		w, _ := s.do(t, http.MethodDelete, fmt.Sprintf("/genre/%d", genreID), nil, token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("删除图书后可删除分类", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, fmt.Sprintf("/books/genre/%d?page_size=100", genreID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var page pageData
		require.NoError(t, json.Unmarshal(env.Data, &page))
		var list []dto.BookResponse
		require.NoError(t, json.Unmarshal(page.List, &list))
		for _, b := range list {
			w, _ := s.do(t, http.MethodDelete, fmt.Sprintf("/books/%d", b.ID), nil, token)
			require.Equal(t, http.StatusOK, w.Code)
		}

		w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/books/%d", bookID), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/genre/%d", genreID), nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/genre/%d", genreID), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "alice")

	t.Run("邮箱重复", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/auth/register", gin.H{
			"username": "alice2", "email": "alice@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("密码错误", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/auth/login", gin.H{"email": "alice@example.com", "password": "wrong1234"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("刷新Token", func(t *testing.T) {
		_, env := s.do(t, http.MethodPost, "/auth/login", gin.H{"email": "alice@example.com", "password": "secret123"}, "")
		var data appuser.LoginResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))

		w, _ := s.do(t, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": data.RefreshToken}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		// Refresh Token不能当Access Token用
		w, _ = s.do(t, http.MethodGet, "/transactions", nil, data.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/auth/logout", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = s.do(t, http.MethodGet, "/transactions", nil, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPurchaseRateLimit(t *testing.T) {
	s := newTestServer(t, middleware.NewUserRateLimiter(0.001, 1))
	token := s.login(t, "buyer")
	genreID := s.createGenre(t, token, "Programming")
	bookID := s.createBook(t, token, genreID, "Go in Action", 1000, 10)

	w, _ := s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 1)), token)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 1)), token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.False(t, env.Success)
	assert.Equal(t, 9, s.stock(t, bookID))

	// 限额按用户计算
	other := s.login(t, "other")
	w, _ = s.do(t, http.MethodPost, "/transactions", purchase(line(bookID, 1)), other)
	assert.Equal(t, http.StatusCreated, w.Code)

	// 查询不受限流影响
	w, _ = s.do(t, http.MethodGet, "/transactions", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
