package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/erp/posting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		scope, _ := middleware.GetScope(c)
		c.JSON(http.StatusOK, dto.NewSuccessResponse(scope.String()))
	})
	rg.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func newTestEngine(t *testing.T, cfg EngineConfig) *gin.Engine {
	t.Helper()
	engine, err := NewEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	return engine
}

func scopedRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(middleware.TenantHeader, uuid.NewString())
	req.Header.Set(middleware.CompanyHeader, uuid.NewString())
	return req
}

func TestNewEngine_NoRoute(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{ServiceName: "posting"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestNewEngine_InvalidTrustedProxy(t *testing.T) {
	_, err := NewEngine(EngineConfig{TrustedProxies: []string{"not-an-ip"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestRouter_Setup(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{ServiceName: "posting"})
	NewRouter(engine).Register(pingRoutes{}).Setup()

	t.Run("scoped request", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, scopedRequest(http.MethodGet, "/api/v1/ping"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("scope headers required", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	NewRouter(engine, WithAPIVersion("v2")).Register(pingRoutes{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, scopedRequest(http.MethodGet, "/api/v2/ping"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, scopedRequest(http.MethodGet, "/api/v1/ping"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_WithMiddleware(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.Header("X-Audit", "seen")
		c.Next()
	})).Register(pingRoutes{}).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, scopedRequest(http.MethodGet, "/api/v1/ping"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "seen", w.Header().Get("X-Audit"))
}

func TestNewEngine_BodyLimit(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{MaxBodySize: 16})
	NewRouter(engine).Register(pingRoutes{}).Setup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"payload":"this body is far too long"}`))
	req.Header.Set(middleware.TenantHeader, uuid.NewString())
	req.Header.Set(middleware.CompanyHeader, uuid.NewString())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
