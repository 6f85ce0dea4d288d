package models

import "time"

// CheckoutForm est le formulaire de commande de la page Checkout.
type CheckoutForm struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	ZipCode       string `json:"zipCode"`
	Comment       string `json:"comment"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=card cash"`
}

// Order est le récapitulatif renvoyé au client après validation du formulaire.
// Les montants viennent du résumé serveur du panier, jamais d'un recalcul local.
type Order struct {
	Reference     string       `json:"reference"`
	Customer      CheckoutForm `json:"customer"`
	Items         []CartItem   `json:"items"`
	Summary       CartSummary  `json:"summary"`
	PaymentMethod string       `json:"paymentMethod"`
	CreatedAt     time.Time    `json:"createdAt"`
}
