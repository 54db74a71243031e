package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

type authServiceMock struct {
	loginResp *models.LoginResponse
	loginErr  error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func (m *authServiceMock) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{loginResp: &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}}
	handler := NewAuthHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(models.LoginRequest{Email: "admin@school.edu", Password: "secret"})
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "access", envelope.Data.AccessToken)
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(&authServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerRefreshRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{loginErr: appErrors.Clone(appErrors.ErrUnauthorized, "invalid refresh token")}
	handler := NewAuthHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader([]byte(`{"refreshToken":"stale"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Refresh(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
