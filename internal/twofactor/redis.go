package twofactor

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afriart/gallery-service/internal/domain"
	"github.com/afriart/gallery-service/internal/notification"
)

// consumeScript deletes the stored code only when the candidate matches, so
// check and consume stay atomic across processes. Returns 1 on a match,
// 0 on a mismatch and -1 when no code exists.
var consumeScript = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if stored == false then
  return -1
end
if stored == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
return 0
`)

// RedisStore keeps live codes in a shared cache so multiple processes can
// serve the handshake. Expiry is delegated to key TTLs, which means a code
// past its TTL surfaces as not found rather than expired.
type RedisStore struct {
	client *redis.Client
	sender notification.Sender
}

// NewRedisStore builds the cache-backed store.
func NewRedisStore(client *redis.Client, sender notification.Sender) *RedisStore {
	return &RedisStore{client: client, sender: sender}
}

func redisKey(address string, role domain.Role) string {
	return fmt.Sprintf("2fa:%s:%s", role, address)
}

// Generate dispatches a fresh code and stores it on delivery success,
// superseding any prior code for the key.
func (s *RedisStore) Generate(ctx context.Context, address string, role domain.Role) error {
	code := randomCode()

	if err := s.sender.Send(ctx, address, codeSubject, codeBody(code)); err != nil {
		return fmt.Errorf("dispatch verification code: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(address, role), code, CodeTTLSeconds*time.Second).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// Verify consumes a matching code atomically via consumeScript.
func (s *RedisStore) Verify(ctx context.Context, address string, role domain.Role, code string) error {
	res, err := consumeScript.Run(ctx, s.client, []string{redisKey(address, role)}, code).Int()
	if err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}
	switch res {
	case 1:
		return nil
	case 0:
		return ErrCodeInvalid
	default:
		return ErrCodeNotFound
	}
}

// SweepExpired is a no-op: redis drops expired keys on its own.
func (s *RedisStore) SweepExpired(context.Context) int {
	return 0
}
