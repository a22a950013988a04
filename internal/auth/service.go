package auth

import (
	"context"
	"errors"
	"time"

	"locallibrary/internal/platform/crypto"
	"locallibrary/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

const defaultTokenTTL = 15 * time.Minute

type Service struct {
	secret      string
	userService *user.Service
	tokenTTL    time.Duration
}

func NewService(secret string, userService *user.Service) *Service {
	return &Service{
		secret:      secret,
		userService: userService,
		tokenTTL:    defaultTokenTTL,
	}
}

// WithTokenTTL overrides how long issued access tokens stay valid.
func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	s.tokenTTL = ttl
	return s
}

// Login checks the credentials and issues an access token carrying the
// user's capabilities. It returns the token and its lifetime in seconds.
func (s *Service) Login(ctx context.Context, email, password string) (string, int, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", 0, ErrUnauthorized
		}
		return "", 0, err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return "", 0, ErrUnauthorized
	}

	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Capabilities, s.tokenTTL)
	if err != nil {
		return "", 0, err
	}
	return accessToken, int(s.tokenTTL.Seconds()), nil
}
