package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
)

var ErrEmailNotVerified = errors.New("user email not available or not verified")
var ErrDomainRejected = errors.New("google account must belong to SMS")

// AllowedEmailDomains are the organization domains accepted at login.
var AllowedEmailDomains = []string{"stmarysschool.org", "stmarysmemphis.net"}

type IdentityService interface {
	// Resolve maps a verified external identity to the local user record,
	// creating one on first login. The domain check runs before any lookup.
	Resolve(ctx context.Context, email string, verified bool, givenName string) (*model.User, error)
}

type identityService struct {
	users repository.UserRepository
}

func NewIdentityService(users repository.UserRepository) IdentityService {
	return &identityService{users: users}
}

func (s *identityService) Resolve(ctx context.Context, email string, verified bool, givenName string) (*model.User, error) {
	if !verified || email == "" {
		return nil, ErrEmailNotVerified
	}
	email = strings.ToLower(email)
	if !domainAllowed(email) {
		return nil, ErrDomainRejected
	}
	return s.users.GetOrCreate(ctx, email, givenName)
}

func domainAllowed(email string) bool {
	for _, d := range AllowedEmailDomains {
		if strings.HasSuffix(email, "@"+d) {
			return true
		}
	}
	return false
}
