package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffly/internal/auth/token"
	"staffly/internal/middleware"
	"staffly/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRBAC struct {
	allowed bool
	err     error
	got     rbac.EnforceRequest
}

func (f *fakeRBAC) Enforce(req rbac.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, f.err
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "UR1")
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	raw, _, err := tokens.Issue(token.Claims{
		UserID:     "UR1A2B3C4",
		EmployeeID: "EMP1A2B3C4",
		Username:   "jdoe",
		Role:       "User",
	})
	assert.NoError(t, err)

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(tokens), func(c *gin.Context) {
		p, ok := middleware.GetPrincipal(c)
		assert.True(t, ok)
		c.String(http.StatusOK, p.EmployeeID+"|"+p.Role)
	})

	t.Run("valid bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "EMP1A2B3C4|User", w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"Access token required"`)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw+"x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
	})
}

func TestRBACAuthorize(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{allowed: true}
		r := gin.New()
		r.POST("/x", withRole("Admin"), middleware.RBACAuthorize(svc, "payroll", "generate"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, rbac.EnforceRequest{Role: "Admin", Resource: "payroll", Action: "generate"}, svc.got)
	})

	t.Run("denied", func(t *testing.T) {
		r := gin.New()
		r.POST("/x", withRole("User"), middleware.RBACAuthorize(&fakeRBAC{}, "payroll", "generate"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Access denied. Admin privileges required.")
	})

	t.Run("enforcer error", func(t *testing.T) {
		r := gin.New()
		r.POST("/x", withRole("User"), middleware.RBACAuthorize(&fakeRBAC{err: errors.New("boom")}, "payroll", "generate"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/admin", withRole("User"), middleware.RoleMiddleware("Admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitByUser(t *testing.T) {
	r := gin.New()
	r.GET("/x", withRole("User"), middleware.RateLimitByUser(1, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
}

func TestIdempotency(t *testing.T) {
	cacheKey := middleware.IdempotencyCacheKey("/generate", "UR1", "abc")
	lockKey := cacheKey + ":lock"

	t.Run("first request runs handler and caches response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0

		r := gin.New()
		r.POST("/generate", withRole("Admin"), middleware.Idempotency(rdb), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, `{"status":201,"body":{"ok":true}}`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated key replays cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0

		r := gin.New()
		r.POST("/generate", withRole("Admin"), middleware.Idempotency(rdb), func(c *gin.Context) {
			calls++
		})

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"ok":true}}`)

		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, "true", w.Header().Get(middleware.HeaderReplayed))
		assert.Zero(t, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/generate", withRole("Admin"), middleware.Idempotency(rdb), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"CONFLICT"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed response is not cached", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/generate", withRole("Admin"), middleware.Idempotency(rdb), func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
