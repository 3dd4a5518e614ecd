package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
)

func newAuthFixture(t *testing.T) (*memoryUserRepo, AuthService) {
	t.Helper()
	repo := newMemoryUserRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAuthService(repo, validate, "access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour, testLogger())
	return repo, svc
}

func seedUser(t *testing.T, repo *memoryUserRepo, username, password string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id, err := repo.Insert(context.Background(), models.User{
		Username: username,
		Password: string(hash),
		Role:     role,
	})
	require.NoError(t, err)
	return repo.users[id]
}

func TestAuthServiceLogin(t *testing.T) {
	repo, svc := newAuthFixture(t)
	user := seedUser(t, repo, "alice", "secret123", models.RoleTeacher)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", tokens.TokenType)
	require.Equal(t, int64(900), tokens.ExpiresIn)

	parsed, err := jwt.Parse(tokens.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, user.ID.Hex(), claims["sub"])
	require.Equal(t, "teacher", claims["role"])
	require.Equal(t, "access", claims["token_use"])
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "bob", "secret123", models.RoleStudent)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "bob", Password: "wrong"})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthServiceRefresh(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "carol", "secret123", models.RoleAdmin)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Username: "carol", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthServiceRefreshRejectsAccessToken(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "dan", "secret123", models.RoleStudent)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Username: "dan", Password: "secret123"})
	require.NoError(t, err)

	// the access token is signed with a different secret and must not refresh
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.AccessToken})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthServiceRefreshDeletedUser(t *testing.T) {
	repo, svc := newAuthFixture(t)
	user := seedUser(t, repo, "erin", "secret123", models.RoleStudent)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Username: "erin", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), user.ID))

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}
