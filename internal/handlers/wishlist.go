package handlers

import (
	"net/http"

	"honnylove_storefront/internal/store"

	"github.com/gin-gonic/gin"
)

const wishlistFailed = "Не удалось обновить избранное"

type addToWishlistRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
}

func (h *Handler) GetWishlist(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	o := ws.Wishlist.FetchWishlist(c.Request.Context())
	state := ws.Wishlist.State()
	if !o.OK() {
		c.JSON(outcomeStatus(o), gin.H{
			"error":    outcomeMessage(o, state.Error),
			"outcome":  o.String(),
			"wishlist": state,
		})
		return
	}
	c.JSON(http.StatusOK, state)
}

// AddToWishlist : un produit déjà en favoris répond 409 avec le message de l'API.
func (h *Handler) AddToWishlist(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req addToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный товар"})
		return
	}

	o := ws.Wishlist.AddToWishlist(c.Request.Context(), req.ProductID)
	if !respondOutcome(c, o, "Не удалось добавить в избранное") {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Добавлено в избранное",
		"wishlist": ws.Wishlist.State(),
	})
}

func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	if !respondOutcome(c, ws.Wishlist.RemoveFromWishlist(c.Request.Context(), productID), wishlistFailed) {
		return
	}
	c.JSON(http.StatusOK, ws.Wishlist.State())
}

func (h *Handler) ClearWishlist(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	if !respondOutcome(c, ws.Wishlist.ClearWishlist(c.Request.Context()), wishlistFailed) {
		return
	}
	c.JSON(http.StatusOK, ws.Wishlist.State())
}

// IsFavorite lit le cache local des favoris, sans appel amont.
func (h *Handler) IsFavorite(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"productId":  productID,
		"isFavorite": ws.Wishlist.IsFavorite(productID),
	})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	o, favorite := ws.Wishlist.ToggleFavorite(c.Request.Context(), productID)
	status := outcomeStatus(o)
	if o == store.OutcomeDuplicate {
		// Déjà en favoris côté serveur : l'état attendu est atteint.
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"productId":  productID,
		"isFavorite": favorite,
		"outcome":    o.String(),
	})
}
