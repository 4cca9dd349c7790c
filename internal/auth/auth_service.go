package auth

import (
	"context"
	"strings"
	"time"

	autherrors "staffly/internal/auth/errors"
	"staffly/internal/auth/token"
	"staffly/internal/shared/apperror"
	"staffly/internal/shared/contextutil"
	"staffly/internal/shared/database"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session credentials.
type TokenIssuer interface {
	Issue(claims token.Claims) (string, time.Time, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, userID string) (UserResponse, error)
}

type service struct {
	repo   Repository
	tokens TokenIssuer
	logger *zap.Logger
}

func NewService(repo Repository, tokens TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, tokens: tokens, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return LoginResponse{}, autherrors.ErrCredentialsRequired
	}

	cred, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("load credential failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Error(err),
		)
		return LoginResponse{}, apperror.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	signed, expiresAt, err := s.tokens.Issue(token.Claims{
		UserID:     cred.UserID,
		EmployeeID: cred.EmployeeID,
		Username:   cred.Username,
		Role:       cred.Role,
	})
	if err != nil {
		return LoginResponse{}, err
	}

	s.logger.Info("user logged in",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("user_id", cred.UserID),
	)

	return LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      toUserResponse(cred),
	}, nil
}

func (s *service) Me(ctx context.Context, userID string) (UserResponse, error) {
	cred, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if database.IsNotFound(err) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, apperror.Storage(err)
	}
	return toUserResponse(cred), nil
}
