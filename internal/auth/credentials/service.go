package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"identity-service/internal/users"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer mints a bearer token for an authenticated email.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// Service verifies and registers local email/password credentials.
type Service struct {
	repo   users.Repository
	issuer TokenIssuer
}

func NewService(repo users.Repository, issuer TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Login checks the presented credentials and issues a token. A missing
// user, a federated-only account, and a wrong password are all
// reported as ErrInvalidCredentials so callers cannot probe which
// emails are registered.
func (s *Service) Login(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !u.PasswordHash.Valid {
		return "", ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash.String, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issuer.Issue(u.Email)
}

// Signup registers the email with the given password, or rotates the
// password when the email already exists. Either way the caller gets a
// fresh token. A concurrent insert losing to the unique email index is
// converted into the update arm, so two racing signups still end with
// exactly one stored record.
func (s *Service) Signup(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("credentials: hash password: %w", err)
	}

	_, err = s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.UpdatePassword(ctx, email, hash); err != nil {
			return "", err
		}

	case errors.Is(err, users.ErrNotFound):
		if err := s.insertOrRotate(ctx, email, hash); err != nil {
			return "", err
		}

	default:
		return "", err
	}

	return s.issuer.Issue(email)
}

func (s *Service) insertOrRotate(ctx context.Context, email, hash string) error {
	_, err := s.repo.Insert(ctx, users.User{
		Email:        email,
		PasswordHash: sql.NullString{String: hash, Valid: true},
	})
	if errors.Is(err, users.ErrDuplicateEmail) {
		return s.repo.UpdatePassword(ctx, email, hash)
	}
	return err
}
