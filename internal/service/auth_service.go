package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/auth"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/metrics"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SessionTokens, error)
	// Refresh rotates a refresh token that is still on file and issues a new
	// access token.
	Refresh(ctx context.Context, refreshToken string) (*dto.SessionTokens, error)
	SignOut(ctx context.Context, userID int64) error
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type authService struct {
	users   repository.UserRepository
	tokens  repository.RefreshTokenRepository
	access  *auth.Codec
	refresh *auth.Codec
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	access, refresh *auth.Codec,
) AuthService {
	return &authService{users: users, tokens: tokens, access: access, refresh: refresh}
}

func (s *authService) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.SessionTokens, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "rejected").Inc()
		if repository.IsNotFound(err) {
			return nil, apierror.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "rejected").Inc()
		return nil, apierror.ErrInvalidCredentials
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, &model.RefreshToken{Token: tokens.RefreshToken, UserID: user.ID}); err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	tokens.User = toUserResponse(user)

	metrics.AuthAttemptsTotal.WithLabelValues("sign_in", "ok").Inc()
	return tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.SessionTokens, error) {
	claims, err := s.refresh.Parse(refreshToken)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", "rejected").Inc()
		return nil, fmt.Errorf("refresh: %w", apierror.ErrForbidden)
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("refresh: %w", apierror.ErrForbidden)
		}
		return nil, err
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	rotated, err := s.tokens.Rotate(ctx, refreshToken, &model.RefreshToken{Token: tokens.RefreshToken, UserID: user.ID})
	if err != nil {
		return nil, err
	}
	if !rotated {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", "revoked").Inc()
		return nil, fmt.Errorf("refresh: token revoked: %w", apierror.ErrForbidden)
	}
	tokens.User = toUserResponse(user)

	metrics.AuthAttemptsTotal.WithLabelValues("refresh", "ok").Inc()
	return tokens, nil
}

func (s *authService) SignOut(ctx context.Context, userID int64) error {
	return s.tokens.DeleteByUser(ctx, userID)
}

func (s *authService) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) issue(user *model.User) (*dto.SessionTokens, error) {
	access, err := s.access.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refresh.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
	}
}
