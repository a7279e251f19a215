package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sixia/internal/apperr"
	"sixia/internal/database/models"
	"sixia/internal/database/repositories"
	"sixia/internal/identity"
	"sixia/internal/utils"
)

type AuthService struct {
	users      repositories.UserRepository
	issuer     *identity.Issuer
	bcryptCost int
	// dummyHash is compared against when the email is unknown so that both
	// login failures spend the same time hashing.
	dummyHash string
	log       zerolog.Logger
}

// Session is the result of a successful login.
type Session struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func NewAuthService(users repositories.UserRepository, issuer *identity.Issuer, bcryptCost int, log zerolog.Logger) (*AuthService, error) {
	dummy, err := utils.HashPassword("sixia-dummy-password", bcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      users,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		log:        log,
	}, nil
}

// Register creates a user. The email is matched exactly, so addresses that
// differ only in case are distinct accounts.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.PublicUser, error) {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidInput("email, password and name are required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.ErrDuplicateEmail
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, storeError(s.log, "register_lookup", err)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if utils.IsPasswordTooLong(err) {
		return nil, apperr.InvalidInput("password is too long")
	}
	if err != nil {
		return nil, storeError(s.log, "register_hash", err)
	}

	user := &models.User{Email: email, Name: strings.TrimSpace(name), Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError(s.log, "register_create", err)
	}
	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")

	public := user.Public()
	return &public, nil
}

// Login checks the credentials. An unknown email and a wrong password both
// fail with apperr.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.InvalidInput("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		utils.CheckPasswordHash(password, s.dummyHash)
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError(s.log, "login_lookup", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperr.ErrInvalidCredentials
	}

	token, expires, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, storeError(s.log, "login_token", err)
	}
	return &Session{User: user.Public(), Token: token, ExpiresAt: expires}, nil
}

// User returns the public record of the authenticated caller.
func (s *AuthService) User(ctx context.Context, identityID string) (*models.PublicUser, error) {
	id, err := authorize(identityID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		// a valid token for a user that no longer exists
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, storeError(s.log, "get_user", err)
	}
	public := user.Public()
	return &public, nil
}
