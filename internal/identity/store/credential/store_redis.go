package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	"dojoroll/pkg/platform/sentinel"
)

const (
	credKeyPrefix  = "cred:"
	emailKeyPrefix = "cred:email:"
)

// RedisStore is the production credential store adapter. Credentials live in
// a hash per ID; email uniqueness is enforced through an index key claimed
// with SETNX before the hash is written.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, email, password string) (id.CredentialID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return id.CredentialID{}, err
	}
	credID := id.NewCredentialID()

	claimed, err := s.client.SetNX(ctx, emailKeyPrefix+emailKey(email), credID.String(), 0).Result()
	if err != nil {
		return id.CredentialID{}, asUnavailable(err)
	}
	if !claimed {
		return id.CredentialID{}, sentinel.ErrConflict
	}

	err = s.client.HSet(ctx, credKeyPrefix+credID.String(),
		"email", email,
		"password_hash", string(hash),
	).Err()
	if err != nil {
		// Release the email claim so a retry is not wedged behind it.
		s.client.Del(context.WithoutCancel(ctx), emailKeyPrefix+emailKey(email))
		return id.CredentialID{}, asUnavailable(err)
	}
	return credID, nil
}

func (s *RedisStore) FindByID(ctx context.Context, credID id.CredentialID) (*models.Credential, error) {
	fields, err := s.client.HGetAll(ctx, credKeyPrefix+credID.String()).Result()
	if err != nil {
		return nil, asUnavailable(err)
	}
	if len(fields) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &models.Credential{
		ID:           credID,
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
	}, nil
}

func (s *RedisStore) Update(ctx context.Context, credID id.CredentialID, params UpdateParams) error {
	cred, err := s.FindByID(ctx, credID)
	if err != nil {
		return err
	}

	if params.Email != nil && emailKey(*params.Email) != emailKey(cred.Email) {
		indexKey := emailKeyPrefix + emailKey(*params.Email)
		claimed, err := s.client.SetNX(ctx, indexKey, credID.String(), 0).Result()
		if err != nil {
			return asUnavailable(err)
		}
		if !claimed {
			// An earlier attempt may have claimed the index and then died
			// before the hash was written. A claim we already hold is ours;
			// proceeding lets the retry converge.
			owner, err := s.client.Get(ctx, indexKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return asUnavailable(err)
			}
			if owner != credID.String() {
				return sentinel.ErrConflict
			}
		}
		if err := s.client.HSet(ctx, credKeyPrefix+credID.String(), "email", *params.Email).Err(); err != nil {
			if claimed {
				// Release the fresh claim so a retry is not wedged behind it.
				s.client.Del(context.WithoutCancel(ctx), indexKey)
			}
			return asUnavailable(err)
		}
		s.client.Del(context.WithoutCancel(ctx), emailKeyPrefix+emailKey(cred.Email))
	}

	if params.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := s.client.HSet(ctx, credKeyPrefix+credID.String(), "password_hash", string(hash)).Err(); err != nil {
			return asUnavailable(err)
		}
	}
	return nil
}

// Delete removes the credential and its email index entry. Absent
// credentials delete successfully.
func (s *RedisStore) Delete(ctx context.Context, credID id.CredentialID) error {
	cred, err := s.FindByID(ctx, credID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, emailKeyPrefix+emailKey(cred.Email))
	pipe.Del(ctx, credKeyPrefix+credID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return asUnavailable(err)
	}
	return nil
}

func asUnavailable(err error) error {
	return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
}
