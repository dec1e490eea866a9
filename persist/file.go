package persist

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FilePersist stores one file per key under a root directory. Private key
// material is written with 0600 permissions. Writes go through a temp
// file and rename so a crashed process never leaves a half-written key.
type FilePersist struct {
	dir string
	mu  sync.Mutex
}

var _ Persist = (*FilePersist)(nil)

// NewFilePersist stores files under dir, creating it if needed.
func NewFilePersist(dir string) (*FilePersist, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FilePersist{dir: dir}, nil
}

func (p *FilePersist) path(key Key) string {
	ext := ".bin"
	switch key.Kind {
	case KindAccountKey:
		ext = ".pem"
	case KindCertificate:
		ext = ".crt"
	}
	return filepath.Join(p.dir, key.String()+ext)
}

func (p *FilePersist) Get(key Key) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	value, err := os.ReadFile(p.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *FilePersist) Put(key Key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := p.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
