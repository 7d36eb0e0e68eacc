package stockapi

import (
	"context"
	"net/http"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
)

const (
	pathExportFilters = "export/filters/"
	pathExport        = "export/"
	pathBackup        = "backup/"
)

// ExportFilters GET export/filters/.
func (c *Client) ExportFilters(ctx context.Context) (*dto.ExportFiltersResponse, error) {
	var out dto.ExportFiltersResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: pathExportFilters}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export POST export/ con {format, filters}; respuesta binaria.
func (c *Client) Export(ctx context.Context, in dto.ExportRequest) (*dto.Download, error) {
	return c.download(ctx, gateway.Request{Method: http.MethodPost, Path: pathExport, Body: in})
}

// Backup GET backup/; ZIP binario.
func (c *Client) Backup(ctx context.Context) (*dto.Download, error) {
	return c.download(ctx, gateway.Request{Method: http.MethodGet, Path: pathBackup})
}
