package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"meteo-bot-go/internal/model"
	"meteo-bot-go/internal/service"
)

type mockAdminService struct {
	loginErr   error
	refreshErr error
	stats      service.BotStats
	contexts   []model.ConversationContext
}

func (m *mockAdminService) Login(username, password string) (string, string, error) {
	if m.loginErr != nil {
		return "", "", m.loginErr
	}
	return "access-token", "refresh-token", nil
}

func (m *mockAdminService) RefreshToken(refreshToken string) (string, string, error) {
	if m.refreshErr != nil {
		return "", "", m.refreshErr
	}
	return "new-access-token", "new-refresh-token", nil
}

func (m *mockAdminService) Stats() service.BotStats {
	return m.stats
}

func (m *mockAdminService) ListContexts() []model.ConversationContext {
	return m.contexts
}

func newAdminRouter(svc service.AdminService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/admin/login", NewAdminHandler(svc).Login)
	r.GET("/api/v1/admin/stats", NewAdminHandler(svc).GetStats)
	r.POST("/api/v1/auth/refreshToken", NewAuthHandler(svc).RefreshToken)
	return r
}

func TestLogin_Success(t *testing.T) {
	r := newAdminRouter(&mockAdminService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login",
		strings.NewReader(`{"username":"admin","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "access-token", resp.Data.Token)
	require.Equal(t, "refresh-token", resp.Data.RefreshToken)
}

func TestLogin_MissingFields(t *testing.T) {
	r := newAdminRouter(&mockAdminService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login",
		strings.NewReader(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newAdminRouter(&mockAdminService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken_Handler(t *testing.T) {
	r := newAdminRouter(&mockAdminService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refreshToken",
		strings.NewReader(`{"refreshToken":"refresh-token"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "new-access-token")
}

func TestGetStats_Handler(t *testing.T) {
	r := newAdminRouter(&mockAdminService{stats: service.BotStats{ActiveContexts: 3, ProcessedTurns: 42}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data service.BotStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Data.ActiveContexts)
	require.Equal(t, uint64(42), resp.Data.ProcessedTurns)
}
