package stockapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
)

const (
	pathProducts       = "products/"
	pathExpiringSoon   = "products/expiring-soon/"
	pathExpired        = "products/expired/"
	pathLowStock       = "products/low-stock/"
	pathDashboardStats = "products/dashboard/stats/"
)

func productPath(id int64) string {
	return fmt.Sprintf("products/%d/", id)
}

// ListProducts GET products/?<filtros>&page=N.
func (c *Client) ListProducts(ctx context.Context, params dto.ProductListParams) (*dto.ProductPage, error) {
	var out dto.ProductPage
	err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: pathProducts, Query: params.Query()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct GET products/{id}/.
func (c *Client) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: productPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct POST products/.
func (c *Client) CreateProduct(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodPost, Path: pathProducts, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct PUT products/{id}/.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodPut, Path: productPath(id), Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct DELETE products/{id}/ (204 sin cuerpo).
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.gw.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: productPath(id)})
	return err
}

// ExpiringSoon GET products/expiring-soon/?days=N.
func (c *Client) ExpiringSoon(ctx context.Context, days int) (dto.ProductSummaryList, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	return c.summaryList(ctx, pathExpiringSoon, q)
}

// Expired GET products/expired/.
func (c *Client) Expired(ctx context.Context) (dto.ProductSummaryList, error) {
	return c.summaryList(ctx, pathExpired, nil)
}

// LowStock GET products/low-stock/?min_quantity=N.
func (c *Client) LowStock(ctx context.Context, minQuantity int) (dto.ProductSummaryList, error) {
	q := url.Values{}
	if minQuantity > 0 {
		q.Set("min_quantity", strconv.Itoa(minQuantity))
	}
	return c.summaryList(ctx, pathLowStock, q)
}

func (c *Client) summaryList(ctx context.Context, path string, q url.Values) (dto.ProductSummaryList, error) {
	var out dto.ProductSummaryList
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: path, Query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DashboardStats GET products/dashboard/stats/.
func (c *Client) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	var out dto.DashboardStatsResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: pathDashboardStats}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
