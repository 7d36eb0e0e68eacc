package export

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// maxFilenameLen límite de bytes de un nombre en los sistemas de archivos usuales.
const maxFilenameLen = 255

// maxSuffix intentos de "nombre (n).ext" antes de rendirse.
const maxSuffix = 1000

var quotedFilename = regexp.MustCompile(`filename="(.+?)"`)

// FilenameFromDisposition deriva el nombre del archivo a partir de la cabecera
// content-disposition. Sin cabecera, o si no trae un filename utilizable,
// devuelve fallback. Nunca devuelve rutas: solo el último elemento.
func FilenameFromDisposition(header, fallback string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	name := ""
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	}
	if name == "" {
		if m := quotedFilename.FindStringSubmatch(header); m != nil {
			name = m[1]
		}
	}
	name = sanitizeFilename(name)
	if name == "" {
		return fallback
	}
	return name
}

// DefaultFilename nombre de respaldo para un formato: export.<format>.
func DefaultFilename(format string) string {
	return "export." + format
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	switch name {
	case ".", "..", "/":
		return ""
	}
	if len(name) > maxFilenameLen || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return ""
	}
	return name
}

// availablePath evita pisar un archivo existente: "a.csv", "a (1).csv", ...
// Cualquier error de Stat distinto de "no existe" corta la búsqueda.
func availablePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	free, err := notExists(candidate)
	if err != nil || free {
		return candidate, err
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxSuffix; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		free, err := notExists(candidate)
		if err != nil || free {
			return candidate, err
		}
	}
	return "", fmt.Errorf("sin nombre libre para %s tras %d intentos", name, maxSuffix)
}

func notExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case os.IsNotExist(err):
		return true, nil
	}
	return false, err
}
