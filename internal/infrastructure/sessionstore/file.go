package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/stockctl/internal/application/ports"
)

// Permisos del archivo de sesión: contiene credenciales.
const sessionFileMode = 0o600

type fileBackend struct {
	path string
}

// NewFile sesión persistida como JSON en path. Cada escritura va a un archivo
// temporal en el mismo directorio y se promueve con rename.
func NewFile(path string) *Store {
	return newStore(&fileBackend{path: path})
}

func (f *fileBackend) load(context.Context) (ports.Session, error) {
	var sess ports.Session
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return sess, nil
	}
	if err != nil {
		return sess, err
	}
	if len(data) == 0 {
		return sess, nil
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return ports.Session{}, fmt.Errorf("archivo de sesión corrupto %s: %w", f.path, err)
	}
	return sess, nil
}

func (f *fileBackend) save(_ context.Context, s ports.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(sessionFileMode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

func (f *fileBackend) clear(context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
