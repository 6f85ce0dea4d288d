package models

import "time"

// WishlistItem : au plus une ligne par (utilisateur, product_id), garanti côté serveur.
type WishlistItem struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id,omitempty"`
	ProductID int64       `json:"product_id"`
	Product   CartProduct `json:"product"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}
