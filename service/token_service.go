package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatlink-auth/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a token was never issued, expired or was revoked
var ErrTokenNotFound = errors.New("token not found or expired")

// TokenInfo stores token metadata in Redis
type TokenInfo struct {
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenService tracks issued JWTs in Redis so they can be revoked before they expire
type TokenService struct {
	redis  redis.Cmdable
	logger *logger.Logger
}

// NewTokenService creates a new token service
func NewTokenService(client redis.Cmdable, logger *logger.Logger) *TokenService {
	return &TokenService{
		redis:  client,
		logger: logger,
	}
}

func tokenKey(tokenHash string) string {
	return "token:" + tokenHash
}

func userTokensKey(userID int) string {
	return fmt.Sprintf("user_tokens:%d", userID)
}

// StoreToken stores token information in Redis
func (s *TokenService) StoreToken(ctx context.Context, tokenInfo *TokenInfo, expiration time.Duration) error {
	data, err := json.Marshal(tokenInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal token info: %w", err)
	}

	if err := s.redis.Set(ctx, tokenKey(tokenInfo.TokenHash), data, expiration).Err(); err != nil {
		s.logger.Errorw("Failed to store token in Redis", "user_id", tokenInfo.UserID, "error", err)
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	// The per-user set lets a password reset revoke every session at once.
	userKey := userTokensKey(tokenInfo.UserID)
	if err := s.redis.SAdd(ctx, userKey, tokenInfo.TokenHash).Err(); err != nil {
		s.logger.Warnw("Failed to add token to user's active tokens list", "user_id", tokenInfo.UserID, "error", err)
	}
	s.redis.Expire(ctx, userKey, expiration+time.Hour)

	s.logger.Debugw("Token stored", "user_id", tokenInfo.UserID, "token_hash", shortHash(tokenInfo.TokenHash))
	return nil
}

// ValidateToken returns the stored token info, or ErrTokenNotFound
func (s *TokenService) ValidateToken(ctx context.Context, tokenHash string) (*TokenInfo, error) {
	data, err := s.redis.Get(ctx, tokenKey(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		s.logger.Errorw("Failed to get token from Redis", "token_hash", shortHash(tokenHash), "error", err)
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenInfo TokenInfo
	if err := json.Unmarshal([]byte(data), &tokenInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token info: %w", err)
	}

	return &tokenInfo, nil
}

// RevokeToken removes a single token (logout)
func (s *TokenService) RevokeToken(ctx context.Context, tokenHash string) error {
	tokenInfo, err := s.ValidateToken(ctx, tokenHash)
	if err == nil {
		s.redis.SRem(ctx, userTokensKey(tokenInfo.UserID), tokenHash)
	}

	if err := s.redis.Del(ctx, tokenKey(tokenHash)).Err(); err != nil {
		s.logger.Errorw("Failed to revoke token", "token_hash", shortHash(tokenHash), "error", err)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Infow("Token revoked", "token_hash", shortHash(tokenHash))
	return nil
}

// RevokeAllUserTokens revokes every token issued to a user and reports how many there were
func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID int) (int, error) {
	userKey := userTokensKey(userID)

	tokenHashes, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil {
		s.logger.Errorw("Failed to get user tokens", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to get user tokens: %w", err)
	}

	pipe := s.redis.Pipeline()
	for _, tokenHash := range tokenHashes {
		pipe.Del(ctx, tokenKey(tokenHash))
	}
	pipe.Del(ctx, userKey)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Errorw("Failed to revoke all user tokens", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to revoke all user tokens: %w", err)
	}

	s.logger.Infow("All user tokens revoked", "user_id", userID, "token_count", len(tokenHashes))
	return len(tokenHashes), nil
}

func shortHash(h string) string {
	if len(h) <= 8 {
		return h
	}
	return h[:8] + "..."
}
