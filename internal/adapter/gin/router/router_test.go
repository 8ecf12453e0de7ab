package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"book-catalog-service/internal/adapter/cache"
	"book-catalog-service/internal/adapter/db/postgres"
	"book-catalog-service/internal/adapter/gin/handler"
	"book-catalog-service/internal/adapter/gin/middleware"
	"book-catalog-service/internal/adapter/repository/cached"
	"book-catalog-service/internal/usecase/auth"
	"book-catalog-service/internal/usecase/book"
	"book-catalog-service/pkg/logger"
	"book-catalog-service/pkg/security"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(log, 0.5, "warn"),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&postgres.UserSchema{}, &postgres.BookSchema{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens, err := security.NewJWTManager("router-test-secret-router-test-secret", "book-catalog-test", time.Hour)
	require.NoError(t, err)

	authUC := auth.New(postgres.NewUserRepoPG(db, log), security.NewBcryptHasher(bcrypt.MinCost), tokens, log)
	bookRepo := cached.NewCachedBookRepository(postgres.NewBookRepoPG(db, log), cache.NewRedisBookCache(rdb, time.Minute, log), log)
	bookUC := book.New(bookRepo, 2, log)

	limiter := middleware.NewRateLimiter(rdb, middleware.RateLimiterConfig{RequestsPerSecond: 1000, BurstCapacity: 1000, Enabled: true}, log)

	r := SetupRouter(Handlers{
		Auth: handler.NewAuthHandler(authUC, log),
		Book: handler.NewBookHandler(bookUC, log),
	}, authUC, limiter, "book-catalog-test", log)

	return &testServer{t: t, router: r, mr: mr}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) signUp(name, email string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"name": name, "email": email, "password": "1234532"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp auth.TokenResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func (s *testServer) createBook(token, title string) book.Book {
	s.t.Helper()

	w := s.do(http.MethodPost, "/v1/books", token, map[string]any{
		"title":       title,
		"description": "about " + title,
		"author":      "Author",
		"price":       10.5,
		"category":    "Adventure",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var b book.Book
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"book-catalog-test"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSignUpThenDuplicate(t *testing.T) {
	s := newTestServer(t)

	s.signUp("ibra", "ibra@gmail.com")

	w := s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"name": "ibra", "email": "ibra@gmail.com", "password": "1234532"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_exists", errorCode(t, w))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ibra", "ibra@gmail.com")

	wrong := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ibra@gmail.com", "password": "wrong-pass"})
	unknown := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "nobody@gmail.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	ok := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "IBRA@gmail.com", "password": "1234532"})
	require.Equal(t, http.StatusOK, ok.Code)

	var resp auth.TokenResponse
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &resp))
	s.createBook(resp.Token, "Logged in")
}

func TestBookLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("ibra", "ibra@gmail.com")

	created := s.createBook(token, "The Hobbit")
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.User)

	w := s.do(http.MethodGet, "/v1/books/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got book.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "The Hobbit", got.Title)
	assert.Equal(t, "about The Hobbit", got.Description)
	assert.Equal(t, "Author", got.Author)
	assert.Equal(t, 10.5, got.Price)
	assert.Equal(t, "Adventure", got.Category)
	assert.Equal(t, created.User, got.User)
	assert.True(t, s.mr.Exists(cache.Key(created.ID)), "read populates the cache")

	w = s.do(http.MethodPut, "/v1/books/"+created.ID, token, map[string]any{"title": "The Hobbit (revised)", "price": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated book.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "The Hobbit (revised)", updated.Title)
	assert.Equal(t, 0.0, updated.Price)
	assert.Equal(t, "Author", updated.Author)

	w = s.do(http.MethodGet, "/v1/books/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The Hobbit (revised)", "cache was invalidated")

	w = s.do(http.MethodDelete, "/v1/books/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The Hobbit (revised)")

	w = s.do(http.MethodGet, "/v1/books/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/v1/books/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/v1/books/"+created.ID, token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSecondPageOfKeywordSearch(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("ibra", "ibra@gmail.com")

	s.createBook(token, "Book one")
	s.createBook(token, "Unrelated")
	s.createBook(token, "Second book")
	third := s.createBook(token, "BOOK three")

	w := s.do(http.MethodGet, "/v1/books?page=2&keyword=Book", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp book.ListBooksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Books, 1)
	assert.Equal(t, third.ID, resp.Books[0].ID)
	assert.Equal(t, book.Pagination{Total: 3, Page: 2, Limit: 2, TotalPages: 2}, resp.Pagination)

	w = s.do(http.MethodGet, "/v1/books", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Books, 2)
	assert.Equal(t, int64(4), resp.Pagination.Total)
}

func TestListPageBeyondRangeIsEmpty(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("ibra", "ibra@gmail.com")
	s.createBook(token, "Book A")
	s.createBook(token, "Book B")

	for _, page := range []string{"3", "4611686018427387905", "9223372036854775807"} {
		w := s.do(http.MethodGet, "/v1/books?page="+page, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp book.ListBooksResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Books, "page %s", page)
		assert.Equal(t, int64(2), resp.Pagination.Total)
	}
}

func TestListKeywordMatchesLiterally(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("ibra", "ibra@gmail.com")
	want := s.createBook(token, "Learning C/C++ [2nd ed] $=")
	s.createBook(token, "Learning C")
	s.createBook(token, "100% Pure")

	tests := []struct {
		keyword string
		titles  []string
	}{
		{"c/c++", []string{"Learning C/C++ [2nd ed] $="}},
		{"[2nd ed]", []string{"Learning C/C++ [2nd ed] $="}},
		{"$=", []string{"Learning C/C++ [2nd ed] $="}},
		{"0%", []string{"100% Pure"}},
		{"<script>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			w := s.do(http.MethodGet, "/v1/books?keyword="+url.QueryEscape(tt.keyword), "", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp book.ListBooksResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			titles := make([]string, 0, len(resp.Books))
			for _, b := range resp.Books {
				titles = append(titles, b.Title)
			}
			assert.ElementsMatch(t, tt.titles, titles)
		})
	}

	w := s.do(http.MethodGet, "/v1/books?keyword="+url.QueryEscape("C/C++"), "", nil)
	assert.Contains(t, w.Body.String(), want.ID)
}

func TestSignUpPasswordByteLimit(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "accent", "email": "accent@example.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "validation_error", errorCode(t, w))

	w = s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": "accent", "email": "accent@example.com", "password": strings.Repeat("é", 36),
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBookErrors(t *testing.T) {
	s := newTestServer(t)
	owner := s.signUp("owner", "owner@example.com")
	other := s.signUp("other", "other@example.com")
	b := s.createBook(owner, "Mine")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		code   string
	}{
		{"malformed id", http.MethodGet, "/v1/books/123", "", nil, http.StatusBadRequest, "validation_error"},
		{"unknown id", http.MethodGet, "/v1/books/0190d7a4-0000-7000-8000-000000000000", "", nil, http.StatusNotFound, "not_found"},
		{"create without token", http.MethodPost, "/v1/books", "", map[string]any{"title": "x"}, http.StatusUnauthorized, "unauthorized"},
		{"create with bad token", http.MethodPost, "/v1/books", "not-a-jwt", map[string]any{"title": "x"}, http.StatusUnauthorized, "unauthorized"},
		{"create with user field", http.MethodPost, "/v1/books", owner, map[string]any{
			"title": "x", "description": "d", "author": "a", "price": 1, "category": "Crime", "user": "someone",
		}, http.StatusBadRequest, "validation_error"},
		{"create with bad category", http.MethodPost, "/v1/books", owner, map[string]any{
			"title": "x", "description": "d", "author": "a", "price": 1, "category": "Romance",
		}, http.StatusBadRequest, "validation_error"},
		{"update bad category", http.MethodPut, "/v1/books/" + b.ID, owner, map[string]any{"category": "Romance"}, http.StatusBadRequest, "validation_error"},
		{"update by other user", http.MethodPut, "/v1/books/" + b.ID, other, map[string]any{"title": "stolen"}, http.StatusForbidden, "forbidden"},
		{"delete by other user", http.MethodDelete, "/v1/books/" + b.ID, other, nil, http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	w := s.do(http.MethodGet, "/v1/books/"+b.ID, "", nil)
	assert.Contains(t, w.Body.String(), `"title":"Mine"`, "rejected writes left the book untouched")
}

func TestRateLimitApplies(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		w := s.do(http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("request %d", i))
	}
	assert.NotEmpty(t, s.mr.Keys())
}
