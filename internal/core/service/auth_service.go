package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/crm-properties/crm-api/internal/api/metrics"
	"github.com/crm-properties/crm-api/internal/auth"
	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// AuthService implements registration, login and session introspection.
type AuthService struct {
	users ports.UserRepository
	codec *auth.Codec
	log   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, codec *auth.Codec, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, log: log}
}

// Register creates a user and signs an auto-login token. Public
// registration always produces a seller; only an admin can change roles
// afterwards.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleSeller,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.Sign(domain.Session{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and signs a session token. An unknown email
// and a wrong password produce the same error, so the endpoint does not
// reveal which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	role := user.Role
	if !domain.ValidRole(role) {
		role = domain.RoleSeller
	}

	token, err := s.codec.Sign(domain.Session{UserID: user.ID, Role: role})
	if err != nil {
		return nil, "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Str("role", role).Msg("user logged in")
	return user, token, nil
}

// Me loads the user behind a verified session. The role comes from the
// database here, not the token, so a role change takes effect without
// waiting for the old token to expire.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
