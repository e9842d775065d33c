package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/hoopshot/internal/config"
)

func upgradeRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func upgradeRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestWebSocketOriginCheck(t *testing.T) {
	prod := &config.Config{Environment: "production", FrontendURL: "https://hoops.example.com"}
	dev := &config.Config{Environment: "development"}

	cases := []struct {
		name   string
		cfg    *config.Config
		origin string
		want   int
	}{
		{"configured origin", prod, "https://hoops.example.com", http.StatusOK},
		{"foreign origin", prod, "https://evil.example.com", http.StatusForbidden},
		{"no origin", prod, "", http.StatusOK},
		{"dev localhost", dev, "http://localhost:3000", http.StatusOK},
		{"dev foreign", dev, "https://evil.example.com", http.StatusForbidden},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		upgradeRouter(tc.cfg).ServeHTTP(w, upgradeRequest(tc.origin))
		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}

func TestAllowedOrigins(t *testing.T) {
	if got := AllowedOrigins(&config.Config{Environment: "production"}); got != nil {
		t.Errorf("expected no origins without FRONTEND_URL, got %v", got)
	}
	got := AllowedOrigins(&config.Config{Environment: "production", FrontendURL: "https://a.example,https://b.example"})
	if len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", got)
	}
	if got := AllowedOrigins(&config.Config{Environment: "development"}); len(got) != 2 {
		t.Errorf("expected dev origins, got %v", got)
	}
}
