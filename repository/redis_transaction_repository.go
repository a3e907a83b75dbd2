package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	registrationKeyPrefix  = "txn:registration:"
	passwordResetKeyPrefix = "txn:password_reset:"
)

// TransactionRepository stores short-lived multi-step flow state under an
// opaque token. A missing key means the flow has to be restarted.
type TransactionRepository interface {
	SaveRegistration(ctx context.Context, token string, draft *entity.RegistrationDraft, ttl time.Duration) error
	GetRegistration(ctx context.Context, token string) (*entity.RegistrationDraft, error)
	DeleteRegistration(ctx context.Context, token string) error

	SavePasswordReset(ctx context.Context, token string, state *entity.PasswordResetState, ttl time.Duration) error
	GetPasswordReset(ctx context.Context, token string) (*entity.PasswordResetState, error)
	DeletePasswordReset(ctx context.Context, token string) error
}

// RedisTransactionRepository implements TransactionRepository using Redis keys with TTL
type RedisTransactionRepository struct {
	client redis.Cmdable
	logger *logger.Logger
}

// NewRedisTransactionRepository creates a new Redis transaction repository
func NewRedisTransactionRepository(client redis.Cmdable, logger *logger.Logger) TransactionRepository {
	return &RedisTransactionRepository{
		client: client,
		logger: logger,
	}
}

func (r *RedisTransactionRepository) SaveRegistration(ctx context.Context, token string, draft *entity.RegistrationDraft, ttl time.Duration) error {
	return r.set(ctx, registrationKeyPrefix+token, draft, ttl)
}

func (r *RedisTransactionRepository) GetRegistration(ctx context.Context, token string) (*entity.RegistrationDraft, error) {
	var draft entity.RegistrationDraft
	found, err := r.get(ctx, registrationKeyPrefix+token, &draft)
	if err != nil || !found {
		return nil, err
	}
	return &draft, nil
}

func (r *RedisTransactionRepository) DeleteRegistration(ctx context.Context, token string) error {
	return r.del(ctx, registrationKeyPrefix+token)
}

func (r *RedisTransactionRepository) SavePasswordReset(ctx context.Context, token string, state *entity.PasswordResetState, ttl time.Duration) error {
	return r.set(ctx, passwordResetKeyPrefix+token, state, ttl)
}

func (r *RedisTransactionRepository) GetPasswordReset(ctx context.Context, token string) (*entity.PasswordResetState, error) {
	var state entity.PasswordResetState
	found, err := r.get(ctx, passwordResetKeyPrefix+token, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

func (r *RedisTransactionRepository) DeletePasswordReset(ctx context.Context, token string) error {
	return r.del(ctx, passwordResetKeyPrefix+token)
}

func (r *RedisTransactionRepository) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction state: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store transaction state: %w", err)
	}

	r.logger.Debugw("Transaction state stored",
		"key", redactKey(key),
		"ttl_seconds", int(ttl.Seconds()))

	return nil
}

// get decodes the value at key into dest and reports whether the key existed.
func (r *RedisTransactionRepository) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debugw("No transaction state found", "key", redactKey(key))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get transaction state: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal transaction state: %w", err)
	}

	return true, nil
}

func (r *RedisTransactionRepository) del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete transaction state: %w", err)
	}
	return nil
}

// redactKey keeps enough of the token to correlate log lines without exposing it.
func redactKey(key string) string {
	i := strings.LastIndex(key, ":")
	if i < 0 || len(key)-i-1 <= 8 {
		return key
	}
	return key[:i+9] + "..."
}
