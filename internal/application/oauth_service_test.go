package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/oauth"
)

func googleProfile() *oauth.Profile {
	return &oauth.Profile{
		Provider:   oauth.ProviderGoogle,
		ProviderID: "google-42",
		Email:      "alice@example.com",
		Username:   "Alice Example",
	}
}

func TestLinkOrCreateNewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewOAuthService(repo, nil)

	u, err := svc.LinkOrCreate(context.Background(), googleProfile())
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, entity.ProviderGoogle, u.Provider)
	assert.Equal(t, "google-42", u.ProviderID)
	assert.True(t, u.IsMailVerified)

	// Placeholder hash must not verify against anything guessable
	assert.NotEmpty(t, u.Password)
	assert.False(t, helpers.CompareHashAndPassword(u.Password, ""))
	assert.False(t, helpers.CompareHashAndPassword(u.Password, "password"))
}

func TestLinkOrCreateIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewOAuthService(repo, nil)

	first, err := svc.LinkOrCreate(context.Background(), googleProfile())
	require.NoError(t, err)

	second, err := svc.LinkOrCreate(context.Background(), googleProfile())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byID, 1)
}

func TestLinkOrCreateExistingLocalAccount(t *testing.T) {
	repo := newFakeUserRepo()
	users := newTestUserService(repo)
	svc := NewOAuthService(repo, nil)

	local, err := users.Signup(context.Background(), "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	linked, err := svc.LinkOrCreate(context.Background(), googleProfile())
	require.NoError(t, err)

	// Same account returned unchanged; provider fields are not merged
	assert.Equal(t, local.ID, linked.ID)
	assert.Equal(t, entity.ProviderLocal, linked.Provider)
	assert.Empty(t, linked.ProviderID)
	assert.Len(t, repo.byID, 1)
}

// racingUserRepo simulates another request winning the insert between the
// lookup miss and our create: the winner's row lands during Create, which
// then fails with the unique-constraint error.
type racingUserRepo struct {
	*fakeUserRepo
	winner *entity.User
}

func (r *racingUserRepo) Create(_ context.Context, _ *entity.User) error {
	w := *r.winner
	r.byID[w.ID] = &w
	r.byEmail[w.Email] = &w
	return repository.ErrDuplicateEmail
}

func TestLinkOrCreateLosesCreationRace(t *testing.T) {
	winner := &entity.User{
		ID:         "user-1",
		Username:   "Alice Example",
		Email:      "alice@example.com",
		Provider:   entity.ProviderGoogle,
		ProviderID: "google-42",
	}
	repo := &racingUserRepo{fakeUserRepo: newFakeUserRepo(), winner: winner}
	svc := NewOAuthService(repo, nil)

	loser, err := svc.LinkOrCreate(context.Background(), googleProfile())
	require.NoError(t, err)
	assert.Equal(t, winner.ID, loser.ID)
	assert.Len(t, repo.byID, 1)
}
