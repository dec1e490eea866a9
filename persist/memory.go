package persist

import "sync"

// MemoryPersist keeps values in process memory. It is primarily useful
// for tests and throwaway accounts; everything is lost when the process
// exits.
type MemoryPersist struct {
	mu     sync.Mutex
	values map[string][]byte
}

var _ Persist = (*MemoryPersist)(nil)

func NewMemoryPersist() *MemoryPersist {
	return &MemoryPersist{values: map[string][]byte{}}
}

func (p *MemoryPersist) Get(key Key) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, found := p.values[key.String()]
	if !found {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (p *MemoryPersist) Put(key Key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key.String()] = append([]byte(nil), value...)
	return nil
}
