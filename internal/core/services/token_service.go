package services

import (
	"context"
	"time"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
	portssvc "github.com/warinco/ncr_workflow_app/internal/core/ports/services"
	"github.com/warinco/ncr_workflow_app/internal/platform/config"
	"github.com/warinco/ncr_workflow_app/internal/utils"
)

// tokenService implements TokenSvcFacade for issuing JWT access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
