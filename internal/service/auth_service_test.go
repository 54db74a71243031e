package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("exam-office-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
		AdminEmail:         "admin@school.example",
		AdminPasswordHash:  string(hash),
	})
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newAuthServiceForTest(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.example",
		Password: "exam-office-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(60), resp.ExpiresIn)

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@school.example", claims.Email)
	assert.Equal(t, tokenTypeAccess, claims.Type)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.example",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "other@school.example",
		Password: "exam-office-secret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthServiceForTest(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.example",
		Password: "exam-office-secret",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	next, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
}

func TestAuthServiceValidateRejectsTamperedToken(t *testing.T) {
	svc := newAuthServiceForTest(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.example",
		Password: "exam-office-secret",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	// A refresh token never passes as an access token.
	_, err = svc.ValidateAccessToken(resp.RefreshToken)
	require.Error(t, err)
}
