package room

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore keeps rooms in process memory. It is meant for single-process
// development and tests; rooms are lost on restart.
type MemoryStore struct {
	Rooms map[string]Record
	sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Rooms: make(map[string]Record),
	}
}

func (ms *MemoryStore) Create(_ context.Context, rec Record) error {
	ms.Lock()
	ms.Rooms[rec.ID] = rec.Clone()
	ms.Unlock()
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	ms.RLock()
	defer ms.RUnlock()
	rec, ok := ms.Rooms[id]
	if !ok {
		return Record{}, ErrRoomNotFound
	}
	return rec.Clone(), nil
}

// Update holds the write lock for the whole read-modify-write, so updates
// to any room are serialized.
func (ms *MemoryStore) Update(_ context.Context, id string, fn func(rec *Record) error) (Record, error) {
	ms.Lock()
	defer ms.Unlock()

	current, ok := ms.Rooms[id]
	if !ok {
		return Record{}, ErrRoomNotFound
	}

	rec := current.Clone()
	if err := fn(&rec); err != nil {
		if errors.Is(err, ErrSkipWrite) {
			return current.Clone(), nil
		}
		return Record{}, err
	}

	ms.Rooms[id] = rec.Clone()
	return rec, nil
}
