package user

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, email, username, hashedPassword string) (User, error) {
	email = strings.ToLower(email)
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return User{}, ErrAlreadyExists
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	newUser := &User{
		Email:        email,
		Username:     username,
		Password:     hashedPassword,
		Capabilities: []string{},
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}
	return *newUser, nil
}

// GetByID returns the user with their capabilities loaded.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	return s.withCapabilities(ctx, u)
}

// GetByEmail returns the user with their capabilities loaded.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return User{}, err
	}
	return s.withCapabilities(ctx, u)
}

// Grant gives the user a capability. Granting twice is a no-op.
func (s *Service) Grant(ctx context.Context, userID, codename string) error {
	return s.repo.GrantCapability(ctx, userID, codename)
}

func (s *Service) withCapabilities(ctx context.Context, u User) (User, error) {
	caps, err := s.repo.ListCapabilities(ctx, u.ID)
	if err != nil {
		return User{}, err
	}
	if caps == nil {
		caps = []string{}
	}
	u.Capabilities = caps
	return u, nil
}
