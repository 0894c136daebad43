// Package confirm stores pending confirmation codes. Only a bcrypt hash of
// the code is kept, bound to the user's state version at issue time and
// expired by TTL.
package confirm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Record is what the store keeps per pending signup.
type Record struct {
	CodeHash     string `json:"code_hash"`
	StateVersion int64  `json:"state_version"`
}

type Store interface {
	// Put replaces any pending code for the user.
	Put(ctx context.Context, userID string, rec Record, ttl time.Duration) error
	// Get reads without consuming; ok is false when absent or expired.
	Get(ctx context.Context, userID string) (Record, bool, error)
	// Consume atomically fetches and deletes; a concurrent second exchange
	// sees ok=false.
	Consume(ctx context.Context, userID string) (Record, bool, error)
}

const keyPrefix = "confirm:"

// redisStore keeps codes in Redis so every API replica sees the same
// pending-signup state.
type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Put(ctx context.Context, userID string, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal confirmation record: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+userID, payload, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, userID string) (Record, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+userID).Bytes()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return decode(payload)
}

func (s *redisStore) Consume(ctx context.Context, userID string) (Record, bool, error) {
	payload, err := s.client.GetDel(ctx, keyPrefix+userID).Bytes()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return decode(payload)
}

func decode(payload []byte) (Record, bool, error) {
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decode confirmation record: %w", err)
	}
	return rec, true, nil
}

// memoryStore is the single-process fallback, also backing tests.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]memoryEntry)}
}

func (s *memoryStore) Put(_ context.Context, userID string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = memoryEntry{rec: rec, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memoryStore) Get(_ context.Context, userID string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.records, userID)
		return Record{}, false, nil
	}
	return entry.rec, true, nil
}

func (s *memoryStore) Consume(_ context.Context, userID string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[userID]
	delete(s.records, userID)
	if !ok || time.Now().After(entry.expiresAt) {
		return Record{}, false, nil
	}
	return entry.rec, true, nil
}
