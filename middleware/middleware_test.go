package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sokoni/config"
	"sokoni/models"
	"sokoni/services/provider"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProviders map[string]string // user -> provider id

func (s stubProviders) Register(context.Context, string, []models.RawRegistrationStep) (*models.Provider, error) {
	return nil, nil
}

func (s stubProviders) GetByUser(_ context.Context, userID string) (*models.Provider, error) {
	id, ok := s[userID]
	if !ok {
		return nil, provider.ErrNotRegistered
	}
	return &models.Provider{ID: id, UserID: userID}, nil
}

func newRouter(h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	h = append(h, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "role": Role(c), "provider": ProviderID(c)})
	})
	r.GET("/x", h...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthChain(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig = prev })

	customer, _ := utils.GenerateToken("user-1", "customer", time.Hour)
	seller, _ := utils.GenerateToken("user-2", "provider", time.Hour)
	unregistered, _ := utils.GenerateToken("user-3", "provider", time.Hour)

	r := newRouter(JWTAuthMiddleware(), RequireRole("provider"),
		ProviderContextMiddleware(stubProviders{"user-2": "prov-2"}, nil))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "abc", http.StatusUnauthorized},
		{"wrong role", customer, http.StatusForbidden},
		{"not registered", unregistered, http.StatusForbidden},
		{"provider", seller, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.token); w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimitMiddleware(2))
	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, "").Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestGetClientIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "41.90.1.2, 10.0.0.1")
	if ip := getClientIP(c); ip != "41.90.1.2" {
		t.Fatalf("got %q", ip)
	}
}
