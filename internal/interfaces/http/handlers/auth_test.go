package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/promotion-engine/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret-at-least-32-characters!!",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Admin: config.AdminConfig{
			Email:        "admin@example.com",
			PasswordHash: string(hash),
		},
	}
}

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(testAuthConfig(t))
	router := gin.New()
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/refresh", handler.RefreshToken)
	return router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	router := setupAuthRouter(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{
			name:       "valid credentials",
			body:       map[string]string{"email": "admin@example.com", "password": "admin-secret"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       map[string]string{"email": "admin@example.com", "password": "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			body:       map[string]string{"email": "other@example.com", "password": "admin-secret"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       map[string]string{"email": "admin@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed email",
			body:       map[string]string{"email": "not-an-email", "password": "admin-secret"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/auth/login", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestLoginIssuesUsableRefreshToken(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}

	var loginResp struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			ExpiresIn    int    `json:"expires_in"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if loginResp.Data.AccessToken == "" || loginResp.Data.RefreshToken == "" {
		t.Fatal("expected both tokens in the login response")
	}
	if loginResp.Data.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in = %d, want %d", loginResp.Data.ExpiresIn, 900)
	}

	w = postJSON(router, "/auth/refresh", map[string]string{
		"refresh_token": loginResp.Data.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	router := setupAuthRouter(t)

	w := postJSON(router, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}

	var loginResp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	// An access token must not pass for a refresh token
	w = postJSON(router, "/auth/refresh", map[string]string{
		"refresh_token": loginResp.Data.AccessToken,
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token status = %d, want 401", w.Code)
	}
}
