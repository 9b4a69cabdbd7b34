package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/auth"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates desk staff listed in configuration.
type Service struct {
	staff  map[string]config.StaffAccount
	hasher security.PasswordHasher
	jwtSvc auth.JWTService
	logger *logger.Logger
}

func NewService(cfg config.AuthConfig, hasher security.PasswordHasher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("auth")
	staff := make(map[string]config.StaffAccount, len(cfg.Staff))
	for _, s := range cfg.Staff {
		if err := hasher.CheckHash(s.PasswordHash); err != nil {
			// Accounts stay listed; a malformed hash simply never matches.
			log.Warn("staff password hash does not meet policy", "username", s.Username, "reason", err.Error())
		}
		staff[s.Username] = s
	}
	return &Service{
		staff:  staff,
		hasher: hasher,
		jwtSvc: auth.NewJWTService(cfg.Secret, time.Duration(cfg.ExpiryHours)*time.Hour),
		logger: log,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	account, ok := s.staff[username]
	if !ok {
		s.logger.Warn("login for unknown staff account", "username", username)
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		s.logger.Warn("login with wrong password", "username", username)
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(account.Username, account.DisplayName)
	if err != nil {
		return nil, apperrors.NewInternal(fmt.Errorf("failed to generate token: %w", err))
	}

	s.logger.Info("staff logged in", "username", username)
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC(),
		DisplayName: account.DisplayName,
	}, nil
}

func (s *Service) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if _, ok := s.staff[claims.Username]; !ok {
		return nil, apperrors.Unauthorized(fmt.Errorf("staff account %q no longer configured", claims.Username))
	}
	return claims, nil
}
