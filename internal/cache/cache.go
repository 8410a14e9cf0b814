package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/thomas-vilte/repograde/internal/models"
)

// SnapshotStore keeps fetched repository content for the lifetime of the process.
// Keys are models.RepositoryRef.Key(). Entries never expire.
type SnapshotStore interface {
	Get(key string) (models.ContentSnapshot, bool)
	Set(key string, snapshot models.ContentSnapshot)
	Len() int
	Clear()
}

// New returns an unbounded store when maxEntries is 0 and an LRU-bounded one otherwise.
func New(maxEntries int) (SnapshotStore, error) {
	if maxEntries <= 0 {
		return NewMemoryStore(), nil
	}
	return NewLRUStore(maxEntries)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.ContentSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.ContentSnapshot)}
}

func (s *MemoryStore) Get(key string) (models.ContentSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.entries[key]
	return snapshot, ok
}

func (s *MemoryStore) Set(key string, snapshot models.ContentSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = snapshot
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]models.ContentSnapshot)
}

// LRUStore evicts the least recently used snapshot once maxEntries is reached.
type LRUStore struct {
	cache *lru.Cache[string, models.ContentSnapshot]
}

func NewLRUStore(maxEntries int) (*LRUStore, error) {
	c, err := lru.New[string, models.ContentSnapshot](maxEntries)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: c}, nil
}

func (s *LRUStore) Get(key string) (models.ContentSnapshot, bool) {
	return s.cache.Get(key)
}

func (s *LRUStore) Set(key string, snapshot models.ContentSnapshot) {
	s.cache.Add(key, snapshot)
}

func (s *LRUStore) Len() int {
	return s.cache.Len()
}

func (s *LRUStore) Clear() {
	s.cache.Purge()
}
