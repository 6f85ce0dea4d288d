package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"honnylove_storefront/internal/models"
	"honnylove_storefront/internal/services"
)

const unitPrice = 1000

// fakeUpstream imite l'API boutique : panier, favoris, authentification, catalogue.
type fakeUpstream struct {
	mu sync.Mutex

	cart     []models.CartItem
	wishlist []models.WishlistItem
	nextID   int64

	refreshes    int
	refreshFails bool
	cartFails    bool
	calls        map[string]int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{nextID: 100, calls: make(map[string]int)}
}

func (u *fakeUpstream) count(route string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[route]
}

func (u *fakeUpstream) summaryLocked() *models.CartSummary {
	s := &models.CartSummary{}
	for _, it := range u.cart {
		s.ItemsTotal += it.Quantity
		s.Subtotal += it.Subtotal
	}
	s.Total = s.Subtotal
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (u *fakeUpstream) mux() http.Handler {
	m := http.NewServeMux()

	authed := func(route string, next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			u.mu.Lock()
			u.calls[route]++
			fail := u.cartFails
			u.mu.Unlock()

			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer access-") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}
			if fail && strings.HasPrefix(route, "cart") {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
				return
			}
			u.mu.Lock()
			defer u.mu.Unlock()
			next(w, r)
		}
	}

	m.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req services.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.AuthResponse{
			User:         models.User{ID: 1, Username: "anna", Email: req.Email, IsActive: true},
			AccessToken:  "access-login",
			RefreshToken: "refresh-1",
		})
	})

	m.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req services.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "taken@example.com" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email уже используется"})
			return
		}
		writeJSON(w, http.StatusCreated, models.AuthResponse{
			User:         models.User{ID: 2, Username: req.Username, Email: req.Email},
			AccessToken:  "access-register",
			RefreshToken: "refresh-2",
		})
	})

	m.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		u.refreshes++
		if u.refreshFails {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "access-" + strconv.Itoa(u.refreshes)})
	})

	m.HandleFunc("GET /api/cart", authed("cart:get", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.CartResponse{Items: u.cart, Summary: u.summaryLocked(), HasItems: len(u.cart) > 0})
	}))

	m.HandleFunc("POST /api/cart", authed("cart:add", func(w http.ResponseWriter, r *http.Request) {
		var req models.AddCartRequest
		json.NewDecoder(r.Body).Decode(&req)
		u.nextID++
		item := models.CartItem{
			ID:        u.nextID,
			ProductID: req.ProductID,
			Product:   models.CartProduct{ID: req.ProductID, Name: "Товар " + strconv.FormatInt(req.ProductID, 10), Price: unitPrice},
			Quantity:  req.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  models.Price(unitPrice * req.Quantity),
			InStock:   true,
		}
		u.cart = append(u.cart, item)
		writeJSON(w, http.StatusCreated, item)
	}))

	m.HandleFunc("PUT /api/cart/{id}", authed("cart:update", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req struct {
			Quantity int `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for i := range u.cart {
			if u.cart[i].ID == id {
				u.cart[i].Quantity = req.Quantity
				u.cart[i].Subtotal = models.Price(unitPrice * req.Quantity)
				writeJSON(w, http.StatusOK, models.UpdateCartResponse{Item: u.cart[i], CartSummary: u.summaryLocked()})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cart item not found"})
	}))

	m.HandleFunc("DELETE /api/cart/{id}", authed("cart:remove", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		kept := u.cart[:0:0]
		for _, it := range u.cart {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		u.cart = kept
		writeJSON(w, http.StatusOK, models.RemoveCartResponse{Message: "Item removed", CartSummary: u.summaryLocked()})
	}))

	m.HandleFunc("DELETE /api/cart", authed("cart:clear", func(w http.ResponseWriter, r *http.Request) {
		u.cart = nil
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
	}))

	m.HandleFunc("GET /api/wishlist", authed("wishlist:get", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, u.wishlist)
	}))

	m.HandleFunc("POST /api/wishlist", authed("wishlist:add", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID int64 `json:"product_id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for _, it := range u.wishlist {
			if it.ProductID == req.ProductID {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": services.DuplicateWishlistMessage})
				return
			}
		}
		u.nextID++
		item := models.WishlistItem{ID: u.nextID, ProductID: req.ProductID}
		u.wishlist = append(u.wishlist, item)
		writeJSON(w, http.StatusCreated, item)
	}))

	m.HandleFunc("DELETE /api/wishlist/{id}", authed("wishlist:remove", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		kept := u.wishlist[:0:0]
		for _, it := range u.wishlist {
			if it.ProductID != id {
				kept = append(kept, it)
			}
		}
		u.wishlist = kept
		w.WriteHeader(http.StatusNoContent)
	}))

	m.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		products := []models.Product{
			{ID: "1", Name: "Тонер", Brand: "COSRX", Category: "face", Price: 1500},
			{ID: "2", Name: "Маска", Brand: "COSRX", Category: "face", Price: 300},
		}
		writeJSON(w, http.StatusOK, products)
	})

	m.HandleFunc("GET /api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "maintenance"})
	})

	return m
}

func (u *fakeUpstream) refreshCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.refreshes
}
