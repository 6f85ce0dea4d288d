package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"honnylove_storefront/internal/models"
)

// StaticCategories sont servies quand l'API des catégories est indisponible.
var StaticCategories = []models.Category{
	{ID: 1, Slug: "face", Name: "Уход за лицом", Icon: "✨", IsActive: true},
	{ID: 2, Slug: "body", Name: "Уход за телом", Icon: "💆", IsActive: true},
	{ID: 3, Slug: "makeup", Name: "Декоративная косметика", Icon: "💄", IsActive: true},
	{ID: 4, Slug: "pajamas", Name: "Пижамы и халаты", Icon: "🌙", IsActive: true},
	{ID: 5, Slug: "accessories", Name: "Аксессуары", Icon: "🎀", IsActive: true},
}

// Fallback est le catalogue de secours, vide par défaut.
type Fallback struct {
	Products []models.Product `json:"products"`
	Brands   []models.Brand   `json:"brands"`
}

// LoadFallback lit un catalogue de secours JSON. Un chemin vide donne un catalogue vide.
func LoadFallback(path string) (*Fallback, error) {
	fb := &Fallback{Products: []models.Product{}, Brands: []models.Brand{}}
	if path == "" {
		return fb, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du catalogue de secours: %w", err)
	}
	if err := json.Unmarshal(data, fb); err != nil {
		return nil, fmt.Errorf("catalogue de secours illisible: %w", err)
	}
	return fb, nil
}

func (f *Fallback) product(id string) (models.Product, bool) {
	if f == nil {
		return models.Product{}, false
	}
	for _, p := range f.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (f *Fallback) products() []models.Product {
	if f == nil {
		return nil
	}
	return f.Products
}

// brands renvoie les marques déclarées, sinon celles déduites des produits.
func (f *Fallback) brands() []models.Brand {
	if f == nil {
		return []models.Brand{}
	}
	if len(f.Brands) > 0 {
		return f.Brands
	}
	names := BrandsFromProducts(f.Products)
	out := make([]models.Brand, 0, len(names))
	for i, name := range names {
		out = append(out, models.ApiBrand{ID: int64(i + 1), Name: name}.ToBrand())
	}
	return out
}

func staticCategory(id int64) (models.Category, bool) {
	for _, c := range StaticCategories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}
