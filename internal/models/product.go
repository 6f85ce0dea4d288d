package models

// Variant est une déclinaison d'un produit (teinte, taille...).
type Variant struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	BrandID       int64     `json:"brand_id,omitempty"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	SubcategoryID int64     `json:"subcategory_id,omitempty"`
	Price         Price     `json:"price"`
	DiscountPrice *Price    `json:"discountPrice,omitempty"`
	Image         string    `json:"image"`
	Images        []string  `json:"images"`
	Description   string    `json:"description"`
	Ingredients   string    `json:"ingredients,omitempty"`
	Usage         string    `json:"usage,omitempty"`
	Rating        Price     `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	Variants      []Variant `json:"variants,omitempty"`
	InStock       bool      `json:"inStock"`
	IsNew         bool      `json:"isNew"`
	IsBestseller  bool      `json:"isBestseller"`
	IsFeatured    bool      `json:"isFeatured,omitempty"`
}

// EffectivePrice retourne le prix remisé s'il existe, sinon le prix de base.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return p.DiscountPrice.Float()
	}
	return p.Price.Float()
}

// DiscountPercent retourne la remise en pourcentage arrondi (0 sans remise).
func (p Product) DiscountPercent() int {
	if p.DiscountPrice == nil || *p.DiscountPrice <= 0 || p.Price <= 0 {
		return 0
	}
	ratio := (p.Price.Float() - p.DiscountPrice.Float()) / p.Price.Float()
	return int(ratio*100 + 0.5)
}

func (p Product) OnSale() bool {
	return p.DiscountPrice != nil && *p.DiscountPrice > 0 && *p.DiscountPrice < p.Price
}

// ProductsPage est la réponse paginée de GET /products.
type ProductsPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Limit    int       `json:"limit"`
	HasMore  bool      `json:"hasMore"`
}
