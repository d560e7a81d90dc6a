package resolver

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-service/internal/auth"
	"identity-service/internal/users"
)

type stubRepo struct {
	byGoogleID map[string]*users.User
	byEmail    map[string]*users.User
	inserted   []users.User
	attached   map[string]string // userID -> googleID
	insertErr  error
	findErr    error

	// emailMisses makes the first N FindByEmail calls miss, simulating
	// a record that appears between the lookup and the insert.
	emailMisses int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byGoogleID: make(map[string]*users.User),
		byEmail:    make(map[string]*users.User),
		attached:   make(map[string]string),
	}
}

func (s *stubRepo) FindByGoogleID(_ context.Context, googleID string) (*users.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u, ok := s.byGoogleID[googleID]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*users.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.emailMisses > 0 {
		s.emailMisses--
		return nil, users.ErrNotFound
	}
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (s *stubRepo) Insert(_ context.Context, u users.User) (*users.User, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	u.ID = "new-id"
	s.inserted = append(s.inserted, u)
	stored := u
	if u.GoogleID.Valid {
		s.byGoogleID[u.GoogleID.String] = &stored
	}
	s.byEmail[u.Email] = &stored
	return &stored, nil
}

func (s *stubRepo) UpdatePassword(_ context.Context, _, _ string) error {
	return nil
}

func (s *stubRepo) AttachGoogleID(_ context.Context, userID, googleID string) error {
	s.attached[userID] = googleID
	for _, u := range s.byEmail {
		if u.ID == userID {
			u.GoogleID = sql.NullString{String: googleID, Valid: true}
			s.byGoogleID[googleID] = u
		}
	}
	return nil
}

func googleIdentity(sub, email string) *auth.Identity {
	return &auth.Identity{
		Provider:       "google",
		ProviderUserID: sub,
		Email:          email,
		EmailVerified:  true,
	}
}

func TestResolve_ExistingProviderIdentity(t *testing.T) {
	repo := newStubRepo()
	repo.byGoogleID["g-1"] = &users.User{
		ID:       "u1",
		Email:    "a@x.com",
		GoogleID: sql.NullString{String: "g-1", Valid: true},
	}

	u, err := NewDBResolver(repo).Resolve(context.Background(), googleIdentity("g-1", "a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Empty(t, repo.inserted)
}

func TestResolve_LinksExistingEmailAccount(t *testing.T) {
	repo := newStubRepo()
	repo.byEmail["a@x.com"] = &users.User{
		ID:           "u1",
		Email:        "a@x.com",
		PasswordHash: sql.NullString{String: "hash", Valid: true},
	}

	u, err := NewDBResolver(repo).Resolve(context.Background(), googleIdentity("g-1", "a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "g-1", repo.attached["u1"])
	assert.Empty(t, repo.inserted)
}

func TestResolve_CreatesNewUser(t *testing.T) {
	repo := newStubRepo()

	u, err := NewDBResolver(repo).Resolve(context.Background(), googleIdentity("g-2", "new@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", u.Email)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "g-2", repo.inserted[0].GoogleID.String)
}

func TestResolve_DuplicateEmailRaceLinksWinner(t *testing.T) {
	repo := newStubRepo()
	repo.insertErr = users.ErrDuplicateEmail
	// A concurrent signup lands between the email lookup and the insert.
	repo.emailMisses = 1
	repo.byEmail["race@x.com"] = &users.User{ID: "u9", Email: "race@x.com"}

	u, err := NewDBResolver(repo).Resolve(context.Background(), googleIdentity("g-3", "race@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "u9", u.ID)
	assert.Equal(t, "g-3", repo.attached["u9"])
}

func TestResolve_NilIdentity(t *testing.T) {
	_, err := NewDBResolver(newStubRepo()).Resolve(context.Background(), nil)
	assert.Error(t, err)
}

func TestResolve_RepositoryError(t *testing.T) {
	repo := newStubRepo()
	repo.findErr = errors.New("db down")

	_, err := NewDBResolver(repo).Resolve(context.Background(), googleIdentity("g-1", "a@x.com"))
	assert.ErrorContains(t, err, "db down")
}
