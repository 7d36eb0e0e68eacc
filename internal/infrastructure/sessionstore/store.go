// Package sessionstore implementa ports.SessionStore sobre memoria, archivo
// local y Redis. Las tres variantes comparten Store; solo cambia el backend
// donde se guarda la sesión serializada.
package sessionstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/ports"
)

var _ ports.SessionStore = (*Store)(nil)

// backend persiste una sesión completa. load devuelve una sesión vacía (sin
// error) cuando no hay nada guardado.
type backend interface {
	load(ctx context.Context) (ports.Session, error)
	save(ctx context.Context, s ports.Session) error
	clear(ctx context.Context) error
}

// Store serializa las mutaciones: cada escritura es leer-modificar-guardar bajo
// el mismo lock, así tokens y usuario nunca quedan a medio actualizar.
type Store struct {
	mu sync.Mutex
	b  backend
}

func newStore(b backend) *Store { return &Store{b: b} }

// SetSession guarda tokens y usuario en una sola escritura.
func (s *Store) SetSession(ctx context.Context, tokens ports.Tokens, user dto.UserDTO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	if err := s.b.save(ctx, ports.Session{Tokens: tokens, User: &u}); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// SetAccessToken reemplaza el access token (y el refresh si viene rotado).
func (s *Store) SetAccessToken(ctx context.Context, access, refresh string) error {
	return s.update(ctx, func(sess *ports.Session) {
		sess.Access = access
		if refresh != "" {
			sess.Refresh = refresh
		}
	})
}

// SetUser actualiza el usuario cacheado.
func (s *Store) SetUser(ctx context.Context, user dto.UserDTO) error {
	return s.update(ctx, func(sess *ports.Session) {
		u := user
		sess.User = &u
	})
}

func (s *Store) update(ctx context.Context, fn func(*ports.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.b.load(ctx)
	if err != nil {
		return fmt.Errorf("leer sesión: %w", err)
	}
	fn(&sess)
	if err := s.b.save(ctx, sess); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

func (s *Store) snapshot(ctx context.Context) (ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.b.load(ctx)
	if err != nil {
		return ports.Session{}, fmt.Errorf("leer sesión: %w", err)
	}
	return sess, nil
}

// Session devuelve una copia de la sesión completa.
func (s *Store) Session(ctx context.Context) (ports.Session, error) {
	return s.snapshot(ctx)
}

// AccessToken token de acceso actual ("" si no hay sesión).
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	sess, err := s.snapshot(ctx)
	return sess.Access, err
}

// RefreshToken token de refresh actual.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	sess, err := s.snapshot(ctx)
	return sess.Refresh, err
}

// User usuario cacheado o nil.
func (s *Store) User(ctx context.Context) (*dto.UserDTO, error) {
	sess, err := s.snapshot(ctx)
	if err != nil || sess.User == nil {
		return nil, err
	}
	u := *sess.User
	return &u, nil
}

// IsAuthenticated true si hay access token.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	sess, err := s.snapshot(ctx)
	return sess.Access != "", err
}

// Clear borra tokens y usuario.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.b.clear(ctx); err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}
	return nil
}
