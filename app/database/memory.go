package database

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MemoryStore is an in-process RecordStore with the same get/set semantics
// as the Realtime Database: missing paths read as empty, sets replace the
// whole subtree. It backs tests and offline development.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]any)}
}

func (s *MemoryStore) Get(ctx context.Context, path string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node := any(s.root)
	for _, seg := range segments(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[seg]
		if !ok {
			return nil
		}
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *MemoryStore) Set(ctx context.Context, path string, v any) error {
	// Round-trip through JSON so the stored tree is detached from the
	// caller's value and shaped exactly like the wire format.
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return err
	}

	segs := segments(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			parent[seg] = child
		}
		parent = child
	}
	parent[segs[len(segs)-1]] = node
	return nil
}

func segments(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
