// Package integration 针对运行中服务的端到端测试
//
// 需要先启动服务(storage.driver任选),再指定地址运行:
//
//	LITSHOP_BASE_URL=http://localhost:8080 go test ./test/integration/...
//
// 未设置LITSHOP_BASE_URL时全部跳过。
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

var seq atomic.Int64

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IDData 只关心ID的响应
type IDData struct {
	ID uint `json:"id"`
}

// BookData 图书响应数据
type BookData struct {
	ID    uint  `json:"id"`
	Price int64 `json:"price"`
	Stock int   `json:"stock"`
}

// TransactionData 交易响应数据
type TransactionData struct {
	ID            string `json:"id"`
	TotalQuantity int    `json:"total_quantity"`
	TotalPrice    int64  `json:"total_price"`
}

// BaseURL 被测服务地址,未配置时跳过
func BaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("LITSHOP_BASE_URL")
	if url == "" {
		t.Skip("未设置LITSHOP_BASE_URL,跳过集成测试")
	}
	return url
}

// Do 发送请求并解析统一响应,data为nil时不带请求体
func Do(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// Unique 生成本次运行内唯一的后缀
func Unique(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// RegisterTestUser 注册并登录,返回Access Token
func RegisterTestUser(t *testing.T, base, name string) string {
	t.Helper()
	email := Unique(name) + "@test.com"

	resp := Do(t, http.MethodPost, base+"/auth/register", map[string]string{
		"username": name,
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "注册失败: %s", resp.Message)

	resp = Do(t, http.MethodPost, base+"/auth/login", map[string]string{
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, http.StatusOK, resp.Status, "登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	return data.AccessToken
}

// CreateTestBook 新建分类并上架一本图书,返回图书ID
func CreateTestBook(t *testing.T, base, token string, price int64, stock int) uint {
	t.Helper()

	resp := Do(t, http.MethodPost, base+"/genre", map[string]string{"name": Unique("genre")}, token)
	require.Equal(t, http.StatusCreated, resp.Status, "创建分类失败: %s", resp.Message)
	var g IDData
	require.NoError(t, json.Unmarshal(resp.Data, &g))

	resp = Do(t, http.MethodPost, base+"/books", map[string]interface{}{
		"title":     Unique("book"),
		"writer":    "测试作者",
		"condition": "new",
		"price":     price,
		"stock":     stock,
		"genre_id":  g.ID,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, "图书上架失败: %s", resp.Message)

	var b IDData
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	return b.ID
}

// Stock 读取图书当前库存
func Stock(t *testing.T, base string, bookID uint) int {
	t.Helper()
	resp := Do(t, http.MethodGet, fmt.Sprintf("%s/books/%d", base, bookID), nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	var b BookData
	require.NoError(t, json.Unmarshal(resp.Data, &b))
	return b.Stock
}

// Buy 购买一行明细
func Buy(t *testing.T, base, token string, bookID uint, quantity int) *Response {
	t.Helper()
	return Do(t, http.MethodPost, base+"/transactions", map[string]interface{}{
		"lineItems": []map[string]interface{}{{"bookId": bookID, "quantity": quantity}},
	}, token)
}
