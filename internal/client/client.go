// Package client is a typed HTTP client for the inventory API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/dto"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Detail string
	Fields map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Detail)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Detail, strings.Join(parts, "; "))
}

// errorBody matches both apierror envelopes.
type errorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

// Client talks to one inventory server.
type Client struct {
	http *resty.Client
}

// New builds a client for baseURL. A non-empty token is sent as a bearer token.
func New(baseURL, token string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{http: rc}
}

func (c *Client) call(ctx context.Context, method, path string, body, result interface{}) error {
	apiErr := new(errorBody)
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		detail := apiErr.Detail
		if detail == "" {
			detail = http.StatusText(resp.StatusCode())
		}
		return &APIError{Status: resp.StatusCode(), Detail: detail, Fields: apiErr.Fields}
	}
	return nil
}

// ── Raw materials ─────────────────────────────────────────────────────────────

func (c *Client) ListRawMaterials(ctx context.Context, query string) ([]dto.RawMaterialResponse, error) {
	var out []dto.RawMaterialResponse
	path := "/raw-materials"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRawMaterial(ctx context.Context, id string) (*dto.RawMaterialResponse, error) {
	out := new(dto.RawMaterialResponse)
	if err := c.call(ctx, http.MethodGet, "/raw-materials/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRawMaterial(ctx context.Context, req dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	out := new(dto.RawMaterialResponse)
	if err := c.call(ctx, http.MethodPost, "/raw-materials", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateRawMaterial(ctx context.Context, id string, req dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	out := new(dto.RawMaterialResponse)
	if err := c.call(ctx, http.MethodPut, "/raw-materials/"+id, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdjustStock(ctx context.Context, id string, req dto.AdjustStockRequest) (*dto.RawMaterialResponse, error) {
	out := new(dto.RawMaterialResponse)
	if err := c.call(ctx, http.MethodPatch, "/raw-materials/"+id+"/stock", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StockMovements(ctx context.Context, id string, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	q := url.Values{}
	if filter.Kind != "" {
		q.Set("kind", filter.Kind)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/raw-materials/" + id + "/movements"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	out := new(dto.StockMovementListResponse)
	if err := c.call(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteRawMaterial(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/raw-materials/"+id, nil, nil)
}

// ── Products ──────────────────────────────────────────────────────────────────

func (c *Client) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	if err := c.call(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.call(ctx, http.MethodGet, "/products/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.call(ctx, http.MethodPost, "/products", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	out := new(dto.ProductResponse)
	if err := c.call(ctx, http.MethodPut, "/products/"+id, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// ── BOM lines ─────────────────────────────────────────────────────────────────

func (c *Client) ListProductMaterials(ctx context.Context) ([]dto.ProductMaterialResponse, error) {
	var out []dto.ProductMaterialResponse
	if err := c.call(ctx, http.MethodGet, "/product-materials", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListProductMaterialsByProduct(ctx context.Context, productID string) ([]dto.ProductMaterialResponse, error) {
	var out []dto.ProductMaterialResponse
	if err := c.call(ctx, http.MethodGet, "/product-materials/product/"+productID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProductMaterial(ctx context.Context, id string) (*dto.ProductMaterialResponse, error) {
	out := new(dto.ProductMaterialResponse)
	if err := c.call(ctx, http.MethodGet, "/product-materials/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProductMaterial(ctx context.Context, req dto.CreateProductMaterialRequest) (*dto.ProductMaterialResponse, error) {
	out := new(dto.ProductMaterialResponse)
	if err := c.call(ctx, http.MethodPost, "/product-materials", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProductMaterial(ctx context.Context, id string, req dto.UpdateProductMaterialRequest) (*dto.ProductMaterialResponse, error) {
	out := new(dto.ProductMaterialResponse)
	if err := c.call(ctx, http.MethodPut, "/product-materials/"+id, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteProductMaterial(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/product-materials/"+id, nil, nil)
}

// ── Production ────────────────────────────────────────────────────────────────

func (c *Client) Suggestions(ctx context.Context) ([]dto.ProductionSuggestion, error) {
	var out []dto.ProductionSuggestion
	if err := c.call(ctx, http.MethodGet, "/production/suggestions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Capacity(ctx context.Context) (*dto.CapacityReportResponse, error) {
	out := new(dto.CapacityReportResponse)
	if err := c.call(ctx, http.MethodGet, "/production/capacity", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductCapacity(ctx context.Context, productID string) (*dto.ProductCapacityResponse, error) {
	out := new(dto.ProductCapacityResponse)
	if err := c.call(ctx, http.MethodGet, "/production/capacity/"+productID, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RawMaterialByCode resolves a raw material by its exact code, ignoring case.
func (c *Client) RawMaterialByCode(ctx context.Context, code string) (*dto.RawMaterialResponse, error) {
	list, err := c.ListRawMaterials(ctx, code)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Code, code) {
			return &list[i], nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Detail: fmt.Sprintf("raw material %q not found", code)}
}

// ProductByCode resolves a product by its exact code, ignoring case.
func (c *Client) ProductByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	list, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Code, code) {
			return &list[i], nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Detail: fmt.Sprintf("product %q not found", code)}
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
