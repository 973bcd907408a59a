package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
	"github.com/letmerecall/server/pkg/helpers"
)

// fakeUserRepo is an in-memory UserRepository. A hand-written fake keeps the
// tests readable and dependency-free.
type fakeUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
	nextID  int

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]*entity.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	u.CreatedAt = time.Now()
	copied := *u
	f.byID[u.ID] = &copied
	f.byEmail[u.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func newTestUserService(repo *fakeUserRepo) *UserService {
	jwt := helpers.NewJWTManager("test-secret-at-least-16-chars!!", 4*24*time.Hour)
	return NewUserService(repo, jwt, nil, nil)
}

func TestSignup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	u, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, entity.ProviderLocal, u.Provider)
	assert.False(t, u.IsMailVerified)

	// The stored password is a hash of the plaintext, never the plaintext
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "secret1"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "bob", "a@b.com", "secret2")
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Len(t, repo.byID, 1)
}

func TestSignupDuplicateEmailRace(t *testing.T) {
	// The pre-check misses, the constraint violation from the store decides
	repo := newFakeUserRepo()
	repo.createErr = repository.ErrDuplicateEmail
	svc := newTestUserService(repo)

	_, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestSignin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	created, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	require.NoError(t, err)

	u, token, exp, err := svc.Signin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, created.ID, u.ID)
	assert.True(t, exp.After(time.Now()))

	// The token's claims must decode back to the same identity
	claims, err := svc.JWT.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestSigninWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	require.NoError(t, err)

	_, token, _, err := svc.Signin(context.Background(), "a@b.com", "wrong-password")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, token)
}

func TestSigninUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, token, _, err := svc.Signin(context.Background(), "nobody@b.com", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, token)
}

func TestSessionUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	created, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	require.NoError(t, err)
	_, token, _, err := svc.Signin(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	u := svc.SessionUser(context.Background(), token)
	require.NotNil(t, u)
	assert.Equal(t, created.ID, u.ID)

	assert.Nil(t, svc.SessionUser(context.Background(), ""))
	assert.Nil(t, svc.SessionUser(context.Background(), "garbage"))
}

func TestGetProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	created, err := svc.Signup(context.Background(), "alice", "a@b.com", "secret1")
	require.NoError(t, err)

	u, err := svc.GetProfile(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
