package sessionstore

import (
	"context"

	"github.com/jhoicas/stockctl/internal/application/ports"
)

type memoryBackend struct {
	sess ports.Session
}

// NewMemory sesión solo en memoria del proceso (tests y uso embebido).
func NewMemory() *Store {
	return newStore(&memoryBackend{})
}

func (m *memoryBackend) load(context.Context) (ports.Session, error) {
	s := m.sess
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s, nil
}

func (m *memoryBackend) save(_ context.Context, s ports.Session) error {
	m.sess = s
	return nil
}

func (m *memoryBackend) clear(context.Context) error {
	m.sess = ports.Session{}
	return nil
}
