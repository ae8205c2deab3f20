package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/db"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/storage"
	"github.com/noirparfum/noir-backend/internal/websocket"
	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryStore keeps uploads in memory
type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	if err := storage.ValidateImage(contentType, size); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(folder, filename)
	m.objects[key] = data
	return &storage.UploadResult{URL: "https://cdn.example.com/" + key, Key: key, ContentType: contentType}, nil
}

func (m *memoryStore) PresignUpload(ctx context.Context, folder, filename, contentType string) (*storage.PresignedURLResponse, error) {
	key := storage.ObjectKey(folder, filename)
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.example.com/" + key + "?signature=test",
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Store  *memoryStore
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", GinMode: gin.TestMode, Environment: "test"},
		JWT: config.JWTConfig{
			Secret:             "integration-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
		CORS:  config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Store: config.StoreConfig{Name: "Noir Parfum", StorefrontURL: "https://shop.example.com"},
	}
}

func setupIntegrationTest(t *testing.T) *TestServer {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	store := &memoryStore{objects: make(map[string][]byte)}
	application := New(Dependencies{
		Config:            testConfig(),
		DB:                testDB,
		Hub:               hub,
		ObjectStore:       store,
		InlineOrderEmails: true,
	})

	return &TestServer{Router: application.Engine, DB: testDB, Store: store}
}

func (ts *TestServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) register(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "Test Buyer",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Data struct {
			Tokens util.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data.Tokens.AccessToken
}

func (ts *TestServer) adminToken(t *testing.T) string {
	t.Helper()
	token := ts.register(t, "admin@example.com")
	require.NoError(t, ts.DB.Model(&model.User{}).Where("email = ?", "admin@example.com").
		Update("role", model.RoleAdmin).Error)
	// role is read from the token, so sign in again
	w := ts.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data struct {
			Tokens util.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEqual(t, token, body.Data.Tokens.AccessToken)
	return body.Data.Tokens.AccessToken
}

func (ts *TestServer) seedProduct(t *testing.T, name string, price int64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Slug:          util.Slugify(name),
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
		Gender:        model.GenderUnisex,
	}
	require.NoError(t, ts.DB.Create(product).Error)
	return product
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.False(t, body.Success)
	return body
}

func TestHealth(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	ts := setupIntegrationTest(t)
	customer := ts.register(t, "buyer@example.com")

	payload := map[string]interface{}{"name": "Ambre Sauvage", "price": "95"}

	w := ts.do(http.MethodPost, "/api/v1/admin/products", payload, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/admin/products", payload, customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzAdminOnly, errorBody(t, w).Error)

	var count int64
	ts.DB.Model(&model.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestGuestCheckoutJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	admin := ts.adminToken(t)
	product := ts.seedProduct(t, "Oud Nocturne", 40, 5)

	order := map[string]interface{}{
		"customer_name":  "Camille Laurent",
		"customer_email": "camille@example.com",
		"customer_phone": "+33612345678",
		"address_line1":  "12 rue des Lilas",
		"city":           "Lyon",
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2},
		},
	}

	t.Log("Step 1: place order as guest")
	w := ts.do(http.MethodPost, "/api/v1/orders", order, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, "ORD-000001", placed.Data.OrderNumber)
	// 2 x 40 + 5 shipping
	assert.True(t, decimal.NewFromInt(85).Equal(placed.Data.Total), placed.Data.Total.String())

	t.Log("Step 2: guest tracks the order")
	w = ts.do(http.MethodGet, "/api/v1/orders/track?order_number=ORD-000001&email=camille@example.com", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	t.Log("Step 3: second order exceeds the remaining stock")
	order["items"] = []map[string]interface{}{{"product_id": product.ID, "quantity": 4}}
	w = ts.do(http.MethodPost, "/api/v1/orders", order, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ProductOutOfStock, errorBody(t, w).Error)

	t.Log("Step 4: admin ships it")
	path := "/api/v1/admin/orders/" + strconv.FormatUint(uint64(placed.Data.ID), 10) + "/tracking"
	w = ts.do(http.MethodPut, path, map[string]string{"carrier": "Colissimo", "tracking_number": "6A123"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, "/api/v1/admin/dashboard", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored model.Product
	require.NoError(t, ts.DB.First(&stored, product.ID).Error)
	assert.Equal(t, 3, stored.StockQuantity)
}

func TestReviewRatingBounds(t *testing.T) {
	ts := setupIntegrationTest(t)
	ts.seedProduct(t, "Oud Nocturne", 40, 5)

	review := map[string]interface{}{
		"name":    "Camille",
		"email":   "camille@example.com",
		"rating":  6,
		"comment": "Wonderful sillage",
	}
	w := ts.do(http.MethodPost, "/api/v1/products/oud-nocturne/reviews", review, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorBody(t, w).Fields, "rating")

	review["rating"] = 5
	w = ts.do(http.MethodPost, "/api/v1/products/oud-nocturne/reviews", review, "")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestImportRequiresColumns(t *testing.T) {
	ts := setupIntegrationTest(t)
	admin := ts.adminToken(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "reviews"))
	part, err := mw.CreateFormFile("file", "reviews.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("product_slug,name,email,comment\noud-nocturne,Ana,ana@example.com,Lovely\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := errorBody(t, w)
	assert.Equal(t, apperrors.ImportMissingColumns, body.Error)
	assert.Contains(t, body.Fields, "rating")
}

func TestBlogViewCountedOncePerIP(t *testing.T) {
	ts := setupIntegrationTest(t)
	admin := ts.adminToken(t)

	w := ts.do(http.MethodPost, "/api/v1/admin/blogs", map[string]interface{}{
		"title":   "Layering Oud",
		"content": "Start with the base.",
		"status":  "published",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	view := func(ip string) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/blogs/layering-oud", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	view("10.0.0.1")
	view("10.0.0.1")
	view("10.0.0.2")

	var blog model.Blog
	require.NoError(t, ts.DB.Where("slug = ?", "layering-oud").First(&blog).Error)
	assert.Equal(t, 2, blog.Views)
}

func TestImageUpload(t *testing.T) {
	ts := setupIntegrationTest(t)
	admin := ts.adminToken(t)

	upload := func(filename string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("folder", "products"))
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+admin)
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		return w
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	w := upload("bottle.png", png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, ts.Store.objects, 1)

	// a text file renamed to .png is still rejected
	w = upload("fake.png", []byte("just some text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.UploadInvalidFileType, errorBody(t, w).Error)
}
