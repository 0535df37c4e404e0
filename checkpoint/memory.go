package checkpoint

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps checkpoints in process memory. State is lost on restart;
// use the Postgres store when sessions must survive.
type MemoryStore struct {
	mu       sync.RWMutex
	byThread map[string]*Checkpoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byThread: make(map[string]*Checkpoint)}
}

func (s *MemoryStore) Put(ctx context.Context, threadID string, state json.RawMessage, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.byThread[threadID]; ok {
		existing.State = append(json.RawMessage(nil), state...)
		existing.UpdatedAt = now
		if existing.Title == "" {
			existing.Title = title
		}
		return nil
	}

	s.byThread[threadID] = &Checkpoint{
		ThreadID:  threadID,
		State:     append(json.RawMessage(nil), state...),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *MemoryStore) Latest(ctx context.Context, threadID string) (*Checkpoint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.byThread[threadID]
	if !ok {
		return nil, false, nil
	}
	clone := *cp
	clone.State = append(json.RawMessage(nil), cp.State...)
	return &clone, true, nil
}

func (s *MemoryStore) Threads(ctx context.Context) ([]ThreadInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]ThreadInfo, 0, len(s.byThread))
	for _, cp := range s.byThread {
		infos = append(infos, ThreadInfo{
			ThreadID:  cp.ThreadID,
			Title:     cp.Title,
			UpdatedAt: cp.UpdatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

func (s *MemoryStore) Delete(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byThread, threadID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
