package services

import (
	"context"
	"net/http"
	"strconv"

	"honnylove_storefront/internal/models"
)

// GetCart : GET /cart
func (c *Client) GetCart(ctx context.Context, token string) (*models.CartResponse, error) {
	var resp models.CartResponse
	err := c.do(ctx, request{Method: http.MethodGet, Path: "/cart", Token: token}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.CartItem{}
	}
	return &resp, nil
}

// AddToCart : POST /cart, renvoie la ligne créée.
func (c *Client) AddToCart(ctx context.Context, token string, productID int64, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/cart",
		Token:  token,
		Body:   models.AddCartRequest{ProductID: productID, Quantity: quantity},
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCartItem : PUT /cart/:cartItemId
func (c *Client) UpdateCartItem(ctx context.Context, token string, cartItemID int64, quantity int) (*models.UpdateCartResponse, error) {
	var resp models.UpdateCartResponse
	err := c.do(ctx, request{
		Method: http.MethodPut,
		Path:   "/cart/" + strconv.FormatInt(cartItemID, 10),
		Route:  "/cart/:cartItemId",
		Token:  token,
		Body:   map[string]int{"quantity": quantity},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveFromCart : DELETE /cart/:cartItemId
func (c *Client) RemoveFromCart(ctx context.Context, token string, cartItemID int64) (*models.RemoveCartResponse, error) {
	var resp models.RemoveCartResponse
	err := c.do(ctx, request{
		Method: http.MethodDelete,
		Path:   "/cart/" + strconv.FormatInt(cartItemID, 10),
		Route:  "/cart/:cartItemId",
		Token:  token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearCart : DELETE /cart
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, request{Method: http.MethodDelete, Path: "/cart", Token: token}, nil)
}
