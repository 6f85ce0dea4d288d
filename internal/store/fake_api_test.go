package store

import (
	"context"
	"sync"
	"testing"

	"honnylove_storefront/internal/auth"
	"honnylove_storefront/internal/models"
)

// fakeAPI simule l'API boutique. Les fonctions nil répondent avec succès.
type fakeAPI struct {
	mu     sync.Mutex
	calls  map[string]int
	tokens []string

	refresh            func(refreshToken string) (string, error)
	getCart            func() (*models.CartResponse, error)
	addToCart          func(productID int64, quantity int) (*models.CartItem, error)
	updateCartItem     func(id int64, quantity int) (*models.UpdateCartResponse, error)
	removeFromCart     func(id int64) (*models.RemoveCartResponse, error)
	clearCart          func() error
	getWishlist        func() ([]models.WishlistItem, error)
	addToWishlist      func(productID int64) (*models.WishlistItem, error)
	removeFromWishlist func(productID int64) error
	clearWishlist      func() error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) record(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if token != "" {
		f.tokens = append(f.tokens, token)
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) RefreshToken(_ context.Context, refreshToken string) (string, error) {
	f.record("refresh", "")
	if f.refresh != nil {
		return f.refresh(refreshToken)
	}
	return "access-fresh", nil
}

func (f *fakeAPI) GetCart(_ context.Context, token string) (*models.CartResponse, error) {
	f.record("getCart", token)
	if f.getCart != nil {
		return f.getCart()
	}
	return &models.CartResponse{Items: []models.CartItem{}}, nil
}

func (f *fakeAPI) AddToCart(_ context.Context, token string, productID int64, quantity int) (*models.CartItem, error) {
	f.record("addToCart", token)
	if f.addToCart != nil {
		return f.addToCart(productID, quantity)
	}
	return &models.CartItem{ID: 1, ProductID: productID, Quantity: quantity}, nil
}

func (f *fakeAPI) UpdateCartItem(_ context.Context, token string, id int64, quantity int) (*models.UpdateCartResponse, error) {
	f.record("updateCartItem", token)
	if f.updateCartItem != nil {
		return f.updateCartItem(id, quantity)
	}
	return &models.UpdateCartResponse{Item: models.CartItem{ID: id, Quantity: quantity}}, nil
}

func (f *fakeAPI) RemoveFromCart(_ context.Context, token string, id int64) (*models.RemoveCartResponse, error) {
	f.record("removeFromCart", token)
	if f.removeFromCart != nil {
		return f.removeFromCart(id)
	}
	return &models.RemoveCartResponse{Message: "ok"}, nil
}

func (f *fakeAPI) ClearCart(_ context.Context, token string) error {
	f.record("clearCart", token)
	if f.clearCart != nil {
		return f.clearCart()
	}
	return nil
}

func (f *fakeAPI) GetWishlist(_ context.Context, token string) ([]models.WishlistItem, error) {
	f.record("getWishlist", token)
	if f.getWishlist != nil {
		return f.getWishlist()
	}
	return []models.WishlistItem{}, nil
}

func (f *fakeAPI) AddToWishlist(_ context.Context, token string, productID int64) (*models.WishlistItem, error) {
	f.record("addToWishlist", token)
	if f.addToWishlist != nil {
		return f.addToWishlist(productID)
	}
	return &models.WishlistItem{ID: productID * 100, ProductID: productID}, nil
}

func (f *fakeAPI) RemoveFromWishlist(_ context.Context, token string, productID int64) error {
	f.record("removeFromWishlist", token)
	if f.removeFromWishlist != nil {
		return f.removeFromWishlist(productID)
	}
	return nil
}

func (f *fakeAPI) ClearWishlist(_ context.Context, token string) error {
	f.record("clearWishlist", token)
	if f.clearWishlist != nil {
		return f.clearWishlist()
	}
	return nil
}

// signedIn renvoie un TokenProvider (politique always) sur une session ouverte.
func signedIn(t *testing.T, api *fakeAPI) *auth.TokenProvider {
	t.Helper()
	session := auth.NewSession()
	session.SetAuth(models.User{ID: 7, Email: "anna@example.com"}, "access-old", "refresh-1")
	return auth.NewTokenProvider(session, api)
}

func signedOut(api *fakeAPI) *auth.TokenProvider {
	return auth.NewTokenProvider(auth.NewSession(), api)
}

func summary(items int, subtotal float64) *models.CartSummary {
	return &models.CartSummary{
		ItemsTotal: items,
		Subtotal:   models.Price(subtotal),
		Shipping:   300,
		Total:      models.Price(subtotal + 300),
	}
}

func cartItems(ids ...int64) []models.CartItem {
	items := make([]models.CartItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.CartItem{ID: id, ProductID: id * 10, Quantity: 1, UnitPrice: 100, Subtotal: 100})
	}
	return items
}

func itemIDs(items []models.CartItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
