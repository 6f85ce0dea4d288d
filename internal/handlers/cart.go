package handlers

import (
	"net/http"

	"honnylove_storefront/internal/store"

	"github.com/gin-gonic/gin"
)

const cartFailed = "Не удалось обновить корзину"

type addToCartRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// Quantity est obligatoire : seul un 0 explicite retire la ligne.
type updateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart resynchronise le panier puis renvoie son état. En cas d'échec,
// le dernier état connu est renvoyé avec l'erreur.
func (h *Handler) GetCart(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	o := ws.Cart.FetchCart(c.Request.Context())
	state := ws.Cart.State()
	if !o.OK() {
		c.JSON(outcomeStatus(o), gin.H{
			"error":   outcomeMessage(o, state.Error),
			"outcome": o.String(),
			"cart":    state,
		})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetCartSummary lit le résumé local sans appel amont (badge du header).
func (h *Handler) GetCartSummary(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":    ws.Cart.Summary(),
		"totalItems": ws.Cart.TotalItems(),
		"totalPrice": ws.Cart.TotalPrice(),
	})
}

func (h *Handler) AddToCart(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный товар"})
		return
	}

	o := ws.Cart.AddToCart(c.Request.Context(), req.ProductID, req.Quantity)
	if !respondOutcome(c, o, "Не удалось добавить товар в корзину") {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Товар добавлен в корзину",
		"cart":    ws.Cart.State(),
	})
}

// UpdateCartItem : une quantité inférieure à 1 supprime la ligne.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "cartItemId")
	if !ok {
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректное количество"})
		return
	}

	ctx := c.Request.Context()
	var o store.Outcome
	if qty := *req.Quantity; qty < 1 {
		o = ws.Cart.RemoveFromCart(ctx, id)
	} else {
		o = ws.Cart.UpdateQuantity(ctx, id, qty)
	}
	if !respondOutcome(c, o, cartFailed) {
		return
	}
	c.JSON(http.StatusOK, ws.Cart.State())
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "cartItemId")
	if !ok {
		return
	}
	if !respondOutcome(c, ws.Cart.RemoveFromCart(c.Request.Context(), id), cartFailed) {
		return
	}
	c.JSON(http.StatusOK, ws.Cart.State())
}

func (h *Handler) ClearCart(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	if !respondOutcome(c, ws.Cart.ClearCart(c.Request.Context()), "Не удалось очистить корзину") {
		return
	}
	c.JSON(http.StatusOK, ws.Cart.State())
}
