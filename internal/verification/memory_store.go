package verification

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps verification records in memory. It backs tests and dev
// runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore constructs an in-memory store for tests and local runs.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Seed inserts a record the way the bot's issuance step would.
func (s *MemoryStore) Seed(userID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[token] = Record{UserID: userID, Token: token}
}

// Get exposes the stored record for assertions.
func (s *MemoryStore) Get(token string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[token]
	return rec, ok
}

func (s *MemoryStore) FindByToken(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[token]
	if !ok {
		return "", ErrNotFound
	}
	return rec.UserID, nil
}

func (s *MemoryStore) RecordOutcome(_ context.Context, userID, token, publicKey string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[token]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}
	rec.PublicKey = publicKey
	rec.Verified = verified
	rec.VerifiedAt = time.Now().UTC()
	s.records[token] = rec
	return nil
}
