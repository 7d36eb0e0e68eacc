package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/application/export"
)

func TestFilenameFromDisposition(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"entre comillas", `attachment; filename="report_2024.csv"`, "report_2024.csv"},
		{"sin cabecera", "", "export.csv"},
		{"sin filename", "attachment", "export.csv"},
		{"sin comillas", "attachment; filename=estoque.json", "estoque.json"},
		{"con parámetros extra", `attachment; filename="produtos.xlsx"; size=120`, "produtos.xlsx"},
		{"rfc 5987", `attachment; filename*=UTF-8''relat%C3%B3rio.csv`, "relatório.csv"},
		{"ruta recortada", `attachment; filename="../../etc/passwd"`, "passwd"},
		{"malformado con comillas", `attachment; filename="a b.csv"; x="`, "a b.csv"},
		{"solo puntos", `attachment; filename=".."`, "export.csv"},
		{"demasiado largo", `attachment; filename="` + strings.Repeat("a", 300) + `.csv"`, "export.csv"},
		{"caracteres de control", "attachment; filename=\"a\x00b.csv\"", "export.csv"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, export.FilenameFromDisposition(c.header, export.DefaultFilename("csv")))
		})
	}
}

func TestAvailablePath_Sufijos(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a (1).csv"), nil, 0o644))

	path, err := export.AvailablePath(dir, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a (2).csv"), path)
}

func TestAvailablePath_ErrorDeStatNoRepite(t *testing.T) {
	_, err := export.AvailablePath(t.TempDir(), "a\x00.csv")
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}
