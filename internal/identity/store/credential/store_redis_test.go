package credential

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"dojoroll/pkg/platform/sentinel"
)

// RedisStoreSuite runs the credential contract against miniredis so the
// key/index layout is covered without a container. The testcontainers-backed
// integration suite exercises the same paths against a real server.
type RedisStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.store = NewRedis(client)
}

func (s *RedisStoreSuite) TestCreateAndLookup() {
	ctx := context.Background()

	credID, err := s.store.Create(ctx, "a@x.com", "secret")
	s.Require().NoError(err)

	cred, err := s.store.FindByID(ctx, credID)
	s.Require().NoError(err)
	s.Equal("a@x.com", cred.Email)
	s.NotEmpty(cred.PasswordHash)
	s.NotEqual("secret", cred.PasswordHash)
}

func (s *RedisStoreSuite) TestDuplicateEmailConflicts() {
	ctx := context.Background()

	_, err := s.store.Create(ctx, "dup@x.com", "one")
	s.Require().NoError(err)

	_, err = s.store.Create(ctx, "Dup@X.com", "two")
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *RedisStoreSuite) TestUpdateEmailMovesIndex() {
	ctx := context.Background()

	credID, err := s.store.Create(ctx, "old@x.com", "pw")
	s.Require().NoError(err)

	newEmail := "new@x.com"
	s.Require().NoError(s.store.Update(ctx, credID, UpdateParams{Email: &newEmail}))

	cred, err := s.store.FindByID(ctx, credID)
	s.Require().NoError(err)
	s.Equal("new@x.com", cred.Email)

	// Old address is free for a new credential.
	_, err = s.store.Create(ctx, "old@x.com", "pw")
	s.NoError(err)
}

func (s *RedisStoreSuite) TestUpdateRetryAfterInterruptedClaimConverges() {
	ctx := context.Background()

	credID, err := s.store.Create(ctx, "old@x.com", "pw")
	s.Require().NoError(err)

	// A prior update claimed the new address and then died before the hash
	// write, leaving the index pointing at this credential while the hash
	// still carries the old email.
	s.Require().NoError(s.mini.Set(emailKeyPrefix+emailKey("new@x.com"), credID.String()))

	newEmail := "new@x.com"
	s.Require().NoError(s.store.Update(ctx, credID, UpdateParams{Email: &newEmail}))

	cred, err := s.store.FindByID(ctx, credID)
	s.Require().NoError(err)
	s.Equal("new@x.com", cred.Email)

	// Old address is released.
	_, err = s.store.Create(ctx, "old@x.com", "pw")
	s.NoError(err)
}

func (s *RedisStoreSuite) TestUpdateEmailHeldByAnotherConflicts() {
	ctx := context.Background()

	credID, err := s.store.Create(ctx, "mine@x.com", "pw")
	s.Require().NoError(err)
	_, err = s.store.Create(ctx, "taken@x.com", "pw")
	s.Require().NoError(err)

	taken := "taken@x.com"
	err = s.store.Update(ctx, credID, UpdateParams{Email: &taken})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	cred, err := s.store.FindByID(ctx, credID)
	s.Require().NoError(err)
	s.Equal("mine@x.com", cred.Email)
}

func (s *RedisStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()

	credID, err := s.store.Create(ctx, "gone@x.com", "pw")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(ctx, credID))
	s.Require().NoError(s.store.Delete(ctx, credID))

	_, err = s.store.FindByID(ctx, credID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestUnreachableServerIsUnavailable() {
	ctx := context.Background()

	credID, err := s.store.Create(ctx, "down@x.com", "pw")
	s.Require().NoError(err)

	s.mini.Close()

	_, err = s.store.FindByID(ctx, credID)
	s.Require().ErrorIs(err, sentinel.ErrUnavailable)
}
