package models

// CartProduct est l'instantané du produit embarqué dans une ligne de panier.
type CartProduct struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Price         Price     `json:"price"`
	DiscountPrice *Price    `json:"discountPrice,omitempty"`
	Image         string    `json:"image,omitempty"`
	InStock       bool      `json:"inStock"`
	Variants      []Variant `json:"variants,omitempty"`
}

// CartItem est une ligne du panier telle que le serveur la renvoie.
// ID est l'identifiant de ligne, distinct de ProductID.
type CartItem struct {
	ID         int64       `json:"id"`
	ProductID  int64       `json:"product_id"`
	Product    CartProduct `json:"product"`
	Quantity   int         `json:"quantity"`
	UnitPrice  Price       `json:"unitPrice"`
	Subtotal   Price       `json:"subtotal"`
	InStock    bool        `json:"inStock"`
	OutOfStock bool        `json:"outOfStock"`
}

// CartSummary est toujours remplacé en bloc depuis la réponse serveur.
type CartSummary struct {
	ItemsTotal int   `json:"itemsTotal"`
	Subtotal   Price `json:"subtotal"`
	Shipping   Price `json:"shipping"`
	Total      Price `json:"total"`
}

// CartResponse : GET /cart
type CartResponse struct {
	Items    []CartItem   `json:"items"`
	Summary  *CartSummary `json:"summary"`
	HasItems bool         `json:"hasItems"`
}

// AddCartRequest : POST /cart
type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartResponse : PUT /cart/:cartItemId
type UpdateCartResponse struct {
	Item        CartItem     `json:"item"`
	CartSummary *CartSummary `json:"cartSummary"`
}

// RemoveCartResponse : DELETE /cart/:cartItemId
type RemoveCartResponse struct {
	Message     string       `json:"message"`
	CartSummary *CartSummary `json:"cartSummary"`
}
