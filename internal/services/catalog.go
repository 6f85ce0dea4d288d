package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"honnylove_storefront/internal/models"
)

// GetProducts : GET /products. L'API renvoie soit un tableau, soit une page
// {products,total,page,pages,limit,hasMore} ; les deux formes sont acceptées.
func (c *Client) GetProducts(ctx context.Context, query url.Values) (*models.ProductsPage, error) {
	path := "/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	raw, err := c.doRaw(ctx, request{Method: http.MethodGet, Path: path, Route: "/products"})
	if err != nil {
		return nil, err
	}
	return decodeProductsPage(raw)
}

func decodeProductsPage(raw []byte) (*models.ProductsPage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var products []models.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return nil, fmt.Errorf("liste de produits illisible: %w", err)
		}
		return &models.ProductsPage{
			Products: products,
			Total:    len(products),
			Page:     1,
			Pages:    1,
			Limit:    len(products),
		}, nil
	}

	var page models.ProductsPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("page de produits illisible: %w", err)
	}
	if page.Products == nil {
		page.Products = []models.Product{}
	}
	return &page, nil
}

// GetProductByID : GET /products/:id
func (c *Client) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(id),
		Route:  "/products/:id",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts : GET /products/search?q=
func (c *Client) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   "/products/search?q=" + url.QueryEscape(q),
		Route:  "/products/search",
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetBrands : GET /brands
func (c *Client) GetBrands(ctx context.Context) ([]models.ApiBrand, error) {
	var brands []models.ApiBrand
	if err := c.do(ctx, request{Method: http.MethodGet, Path: "/brands"}, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// GetBrandByID : GET /brands/:id
func (c *Client) GetBrandByID(ctx context.Context, id string) (*models.ApiBrand, error) {
	var b models.ApiBrand
	err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   "/brands/" + url.PathEscape(id),
		Route:  "/brands/:id",
	}, &b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBrandsBrief : GET /brands/brief
func (c *Client) GetBrandsBrief(ctx context.Context) ([]models.BrandBrief, error) {
	var resp struct {
		Brands []models.BrandBrief `json:"brands"`
	}
	if err := c.do(ctx, request{Method: http.MethodGet, Path: "/brands/brief"}, &resp); err != nil {
		return nil, err
	}
	return resp.Brands, nil
}

// GetCategories : GET /categories ({data: [...]})
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Data []models.Category `json:"data"`
	}
	if err := c.do(ctx, request{Method: http.MethodGet, Path: "/categories"}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetCategoryByID : GET /categories/:id ({data: {...}})
func (c *Client) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var resp struct {
		Data *models.Category `json:"data"`
	}
	err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   "/categories/" + strconv.FormatInt(id, 10),
		Route:  "/categories/:id",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNotFound
	}
	return resp.Data, nil
}

// GetSettings : GET /settings
func (c *Client) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	var s models.SiteSettings
	if err := c.do(ctx, request{Method: http.MethodGet, Path: "/settings"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
