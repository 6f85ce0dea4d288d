package services

import (
	"context"
	"net/http"
	"strconv"

	"honnylove_storefront/internal/models"
)

// GetWishlist : GET /wishlist
func (c *Client) GetWishlist(ctx context.Context, token string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := c.do(ctx, request{Method: http.MethodGet, Path: "/wishlist", Token: token}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	return items, nil
}

// AddToWishlist : POST /wishlist. Un doublon renvoie une erreur
// pour laquelle IsDuplicateWishlist est vrai.
func (c *Client) AddToWishlist(ctx context.Context, token string, productID int64) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/wishlist",
		Token:  token,
		Body:   map[string]int64{"product_id": productID},
	}, &item)
	if err != nil {
		return nil, err
	}
	if item.ProductID == 0 {
		item.ProductID = productID
	}
	return &item, nil
}

// RemoveFromWishlist : DELETE /wishlist/:productId
func (c *Client) RemoveFromWishlist(ctx context.Context, token string, productID int64) error {
	return c.do(ctx, request{
		Method: http.MethodDelete,
		Path:   "/wishlist/" + strconv.FormatInt(productID, 10),
		Route:  "/wishlist/:productId",
		Token:  token,
	}, nil)
}

// ClearWishlist : DELETE /wishlist
func (c *Client) ClearWishlist(ctx context.Context, token string) error {
	return c.do(ctx, request{Method: http.MethodDelete, Path: "/wishlist", Token: token}, nil)
}
