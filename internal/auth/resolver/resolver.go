package resolver

import (
	"context"

	"identity-service/internal/auth"
	"identity-service/internal/users"
)

// Resolver determines which stored user an external identity belongs
// to. It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*users.User, error)
}
