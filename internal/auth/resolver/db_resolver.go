package resolver

import (
	"context"
	"database/sql"
	"errors"

	"identity-service/internal/auth"
	"identity-service/internal/users"
)

// DBResolver resolves provider identities against the user repository:
// lookup by provider id, then email-based linking, then creation.
type DBResolver struct {
	repo users.Repository
}

func NewDBResolver(repo users.Repository) *DBResolver {
	return &DBResolver{repo: repo}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*users.User, error) {

	if identity == nil {
		return nil, errors.New("identity is nil")
	}

	// 1. Try lookup by provider id
	u, err := r.repo.FindByGoogleID(ctx, identity.ProviderUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	// 2. Try email-based linking (existing local account, new provider)
	u, err = r.repo.FindByEmail(ctx, identity.Email)
	if err == nil {
		if err := r.repo.AttachGoogleID(ctx, u.ID, identity.ProviderUserID); err != nil {
			return nil, err
		}
		return r.repo.FindByGoogleID(ctx, identity.ProviderUserID)
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	// 3. Create new user keyed by the provider id
	_, err = r.repo.Insert(ctx, users.User{
		GoogleID: sql.NullString{String: identity.ProviderUserID, Valid: true},
		Email:    identity.Email,
	})
	if errors.Is(err, users.ErrDuplicateEmail) {
		// Lost a race against a concurrent signup for the same email:
		// link the provider id to the record that won.
		u, err = r.repo.FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, err
		}
		if err := r.repo.AttachGoogleID(ctx, u.ID, identity.ProviderUserID); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	// Re-read so the caller always sees the stored record.
	return r.repo.FindByGoogleID(ctx, identity.ProviderUserID)
}
