package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAuthEngine(cfg *AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BearerAuth(cfg))
	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/protected", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return engine
}

func doAuthRequest(engine *gin.Engine, path, authHeader, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

const remoteAddr = "203.0.113.10:54321"

func TestBearerAuthDisabledPassesThrough(t *testing.T) {
	engine := newAuthEngine(&AuthConfig{Enabled: false, Token: "secret"})
	w := doAuthRequest(engine, "/protected", "", remoteAddr)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthRejectsMissingHeader(t *testing.T) {
	engine := newAuthEngine(&AuthConfig{Enabled: true, Token: "secret"})
	w := doAuthRequest(engine, "/protected", "", remoteAddr)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "authentication_error")
}

func TestBearerAuthRejectsWrongToken(t *testing.T) {
	engine := newAuthEngine(&AuthConfig{Enabled: true, Token: "secret"})
	w := doAuthRequest(engine, "/protected", "Bearer wrong", remoteAddr)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuthAcceptsValidToken(t *testing.T) {
	engine := newAuthEngine(&AuthConfig{Enabled: true, Token: "secret"})
	w := doAuthRequest(engine, "/protected", "Bearer secret", remoteAddr)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthWhitelistsHealthz(t *testing.T) {
	engine := newAuthEngine(&AuthConfig{Enabled: true, Token: "secret"})
	w := doAuthRequest(engine, "/healthz", "", remoteAddr)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthAllowsLoopback(t *testing.T) {
	engine := newAuthEngine(&AuthConfig{Enabled: true, Token: "secret"})
	w := doAuthRequest(engine, "/protected", "", "127.0.0.1:54321")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDMintedWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Header().Get(XRequestIDKey))
}

func TestRequestIDPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(XRequestIDKey, "fixed-id")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, "fixed-id", w.Header().Get(XRequestIDKey))
}
