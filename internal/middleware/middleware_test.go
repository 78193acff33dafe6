package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", testSecret)

	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("employee_id")+"|"+c.GetString("company_id"))
	})

	t.Run("success", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1", "employee_id": "e-1", "company_id": "c-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "e-1|c-1", w.Body.String())
	})

	t.Run("negative - missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative - expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1", "employee_id": "e-1", "company_id": "c-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})

	t.Run("negative - missing employee claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1", "company_id": "c-1"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type stubEnforcer struct{ allowed bool }

func (s stubEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	return s.allowed, nil
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	build := func(allowed bool) *gin.Engine {
		r := gin.New()
		r.GET("/approvals", func(c *gin.Context) {
			c.Set("employee_id", "e-1")
			c.Set("company_id", "c-1")
			c.Next()
		}, middleware.RBACAuthorize(stubEnforcer{allowed: allowed}, "approval", "read"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	w := httptest.NewRecorder()
	build(true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/approvals", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	build(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/approvals", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "approval:read")
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb, mock := redismock.NewClientMock()

	calls := 0
	router := gin.New()
	router.POST("/approvals", func(c *gin.Context) {
		c.Set("user_id_validated", "u-1")
		c.Next()
	}, middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
		calls++
		c.Data(http.StatusCreated, "application/json", []byte(`{"ok":true}`))
	})

	cacheKey := "idemp:/approvals:u-1:key-1"

	t.Run("first call executes and stores", func(t *testing.T) {
		mock.ExpectGet(cacheKey).SetErr(redis.Nil)
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"ok":true}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/approvals", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips handler", func(t *testing.T) {
		mock.ExpectGet(cacheKey).SetVal(`{"ok":true}`)

		req := httptest.NewRequest(http.MethodPost, "/approvals", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("duplicate in flight", func(t *testing.T) {
		mock.ExpectGet("idemp:/approvals:u-1:key-2").SetErr(redis.Nil)
		mock.ExpectSetNX("idemp:/approvals:u-1:key-2:lock", "locked", 30*time.Second).SetVal(false)

		req := httptest.NewRequest(http.MethodPost, "/approvals", nil)
		req.Header.Set("Idempotency-Key", "key-2")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 1, calls)
	})
}
