package sessionstore

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/stockctl/pkg/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open construye el store indicado por cfg.Session.Backend. El io.Closer
// libera la conexión a Redis cuando aplica.
func Open(ctx context.Context, cfg *config.Config) (*Store, io.Closer, error) {
	switch cfg.Session.Backend {
	case "", "memory":
		return NewMemory(), nopCloser{}, nil
	case "file":
		return NewFile(cfg.Session.File), nopCloser{}, nil
	case "redis":
		rdb, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedis(rdb, cfg.Session.Key), rdb, nil
	}
	return nil, nil, fmt.Errorf("backend de sesión desconocido: %q", cfg.Session.Backend)
}
