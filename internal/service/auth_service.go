package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edudesk/edudesk-api/internal/apperr"
	"github.com/edudesk/edudesk-api/internal/docutil"
	"github.com/edudesk/edudesk-api/internal/dto"
	"github.com/edudesk/edudesk-api/internal/models"
	"github.com/edudesk/edudesk-api/internal/repository"
)

// AuthService issues and refreshes JWT token pairs. Access and refresh
// tokens are signed with separate secrets so a leaked refresh secret cannot
// mint access tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (dto.TokenResponse, error)
}

type authService struct {
	repo          repository.UserRepository
	validator     *validator.Validate
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(repo repository.UserRepository, validate *validator.Validate, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		repo:          repo,
		validator:     validate,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        logger.With().Str("component", "auth_service").Logger(),
		now:           time.Now,
	}
}

func errInvalidCredentials() error {
	return apperr.Unauthorized("invalid username or password").
		WithUserMessage("Invalid username or password.")
}

// Login verifies credentials and returns a fresh token pair. Unknown
// username and wrong password produce the same error to avoid account
// enumeration.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TokenResponse{}, validationError(err)
	}

	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	if user == nil {
		return dto.TokenResponse{}, errInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("failed login attempt")
		return dto.TokenResponse{}, errInvalidCredentials()
	}

	return s.issuePair(*user)
}

// Refresh validates a refresh token and issues a new pair for its subject.
func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TokenResponse{}, validationError(err)
	}

	token, err := jwt.Parse(req.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return dto.TokenResponse{}, apperr.Unauthorized("invalid refresh token").WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.TokenResponse{}, apperr.Unauthorized("invalid refresh token claims")
	}
	if use, _ := claims["token_use"].(string); use != "refresh" {
		return dto.TokenResponse{}, apperr.Unauthorized("token is not a refresh token")
	}

	subject, _ := claims["sub"].(string)
	userID, err := docutil.ValidateObjectID(subject)
	if err != nil {
		return dto.TokenResponse{}, apperr.Unauthorized("invalid refresh token subject")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return dto.TokenResponse{}, apperr.Unauthorized("refresh token subject no longer exists").WithCause(err)
	}

	return s.issuePair(user)
}

func (s *authService) issuePair(user models.User) (dto.TokenResponse, error) {
	issuedAt := s.now().UTC()

	access, err := s.sign(jwt.MapClaims{
		"sub":       user.ID.Hex(),
		"role":      string(user.Role),
		"username":  user.Username,
		"token_use": "access",
		"jti":       uuid.NewString(),
		"iat":       issuedAt.Unix(),
		"exp":       issuedAt.Add(s.accessTTL).Unix(),
	}, s.accessSecret)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	refresh, err := s.sign(jwt.MapClaims{
		"sub":       user.ID.Hex(),
		"token_use": "refresh",
		"jti":       uuid.NewString(),
		"iat":       issuedAt.Unix(),
		"exp":       issuedAt.Add(s.refreshTTL).Unix(),
	}, s.refreshSecret)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	return dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *authService) sign(claims jwt.MapClaims, secret string) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", apperr.Internal("sign token", err)
	}
	return signed, nil
}
