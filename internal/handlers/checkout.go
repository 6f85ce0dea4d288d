package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"honnylove_storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const mailTimeout = 10 * time.Second

// Checkout valide le formulaire, resynchronise le panier et le vide.
// Les montants viennent du résumé serveur ; aucun paiement n'est traité.
func (h *Handler) Checkout(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var form models.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Пожалуйста, заполните все обязательные поля"})
		return
	}
	if form.PaymentMethod == "" {
		form.PaymentMethod = "card"
	}

	ctx := c.Request.Context()
	if !respondOutcome(c, ws.Cart.FetchCart(ctx), "Не удалось загрузить корзину") {
		return
	}

	items, summary := ws.Cart.Items(), ws.Cart.Summary()
	if len(items) == 0 || summary == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Корзина пуста"})
		return
	}

	order := models.Order{
		Reference:     "HL-" + strings.ToUpper(uuid.NewString()[:8]),
		Customer:      form,
		Items:         items,
		Summary:       *summary,
		PaymentMethod: form.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
	}

	if !respondOutcome(c, ws.Cart.ClearCart(ctx), "Не удалось оформить заказ") {
		return
	}
	h.logger.Info("✅ Commande validée",
		zap.String("reference", order.Reference),
		zap.String("visitor_id", ws.ID),
		zap.Int("items", summary.ItemsTotal),
		zap.Float64("total", summary.Total.Float()),
	)

	if h.mailer != nil && h.mailer.Enabled() {
		mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()
		if err := h.mailer.SendOrderConfirmation(mailCtx, order); err != nil {
			// La commande est validée : l'e-mail n'est qu'une confirmation.
			h.logger.Warn("⚠️ E-mail de confirmation non envoyé", zap.String("reference", order.Reference), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Заказ успешно оформлен",
		"order":   order,
	})
}
