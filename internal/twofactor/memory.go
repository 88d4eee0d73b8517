package twofactor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/afriart/gallery-service/internal/domain"
	"github.com/afriart/gallery-service/internal/notification"
)

type codeKey struct {
	address string
	role    domain.Role
}

type codeEntry struct {
	code      string
	issuedAt  time.Time
	expiresAt time.Time
}

// MemoryStore keeps live codes in a mutex-guarded map. It is the one piece
// of shared mutable state touched by every request; the lock is held only
// for the in-memory check or mutate, never across mail dispatch.
type MemoryStore struct {
	mu     sync.Mutex
	codes  map[codeKey]codeEntry
	sender notification.Sender
	now    func() time.Time
}

// NewMemoryStore builds the in-process store.
func NewMemoryStore(sender notification.Sender) *MemoryStore {
	return &MemoryStore{
		codes:  make(map[codeKey]codeEntry),
		sender: sender,
		now:    time.Now,
	}
}

// Generate dispatches a fresh code and stores it on delivery success. A
// failed dispatch stores nothing, so no live code exists that was never
// delivered.
func (s *MemoryStore) Generate(ctx context.Context, address string, role domain.Role) error {
	code := randomCode()

	if err := s.sender.Send(ctx, address, codeSubject, codeBody(code)); err != nil {
		return fmt.Errorf("dispatch verification code: %w", err)
	}

	now := s.now()
	s.mu.Lock()
	s.codes[codeKey{address: address, role: role}] = codeEntry{
		code:      code,
		issuedAt:  now,
		expiresAt: now.Add(CodeTTLSeconds * time.Second),
	}
	s.mu.Unlock()
	return nil
}

// Verify consumes a matching code. The whole check-then-act sequence runs
// under the lock so concurrent verifications cannot both succeed.
func (s *MemoryStore) Verify(_ context.Context, address string, role domain.Role, code string) error {
	key := codeKey{address: address, role: role}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[key]
	if !ok {
		return ErrCodeNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.codes, key)
		return ErrCodeExpired
	}
	if entry.code != code {
		return ErrCodeInvalid
	}
	delete(s.codes, key)
	return nil
}

// SweepExpired drops entries past their TTL.
func (s *MemoryStore) SweepExpired(_ context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, entry := range s.codes {
		if now.After(entry.expiresAt) {
			delete(s.codes, key)
			dropped++
		}
	}
	return dropped
}
