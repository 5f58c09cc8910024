package submission

import "sync"

// Store is the durable device-scoped key-value store backing the queue. The
// queue survives process restarts as long as the store does.
type Store interface {
	Set(id string, data []byte) error
	Get(id string) ([]byte, error)
	Remove(id string) error

	// List returns a snapshot of every stored record keyed by id.
	List() (map[string][]byte, error)
}

type memoryStore struct {
	mutex sync.Mutex
	items map[string][]byte
}

// NewMemoryStore returns a volatile in-memory store, used in tests and as a
// fallback when no durable path is available.
func NewMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[string][]byte)}
}

func (s *memoryStore) Set(id string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.items[id] = copied
	return nil
}

func (s *memoryStore) Get(id string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	return data, nil
}

func (s *memoryStore) Remove(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.items, id)
	return nil
}

func (s *memoryStore) List() (map[string][]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	snapshot := make(map[string][]byte, len(s.items))
	for id, data := range s.items {
		snapshot[id] = data
	}

	return snapshot, nil
}
