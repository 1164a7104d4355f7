package services

import (
	"context"
	"time"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
)

// TokenSvcFacade defines operations for issuing access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the given user, carrying
	// the user id as subject and the role as a custom claim.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
