package catalog

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"honnylove_storefront/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 10000

	// Ellipsis marque un trou dans la liste de pages.
	Ellipsis = 0
)

const (
	SortPopular   = "popular"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
	SortNew       = "new"
	SortDiscount  = "discount"
)

// Filters décrit une requête catalogue. MaxPrice à 0 = pas de borne haute.
type Filters struct {
	Categories   []string
	Brands       []string
	MinPrice     float64
	MaxPrice     float64
	IsNew        bool
	IsBestseller bool
	OnSale       bool
	Query        string
	Sort         string
	Page         int
	Limit        int
}

// ParseFilters lit les paramètres de l'URL vitrine (listes séparées par des virgules).
func ParseFilters(q url.Values) Filters {
	f := Filters{
		Categories:   splitCSV(q.Get("category")),
		Brands:       splitCSV(q.Get("brands")),
		MinPrice:     parseFloat(q.Get("minPrice")),
		MaxPrice:     parseFloat(q.Get("maxPrice")),
		IsNew:        q.Get("isNew") == "true",
		IsBestseller: q.Get("isBestseller") == "true",
		OnSale:       q.Get("isOnSale") == "true",
		Query:        strings.TrimSpace(q.Get("q")),
		Sort:         q.Get("sort"),
		Page:         parseInt(q.Get("page")),
		Limit:        parseInt(q.Get("limit")),
	}
	return f.normalized()
}

func (f Filters) normalized() Filters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Sort == "" {
		f.Sort = SortPopular
	}
	if f.MinPrice < 0 {
		f.MinPrice = 0
	}
	return f
}

// Values construit la requête GET /products de l'API.
func (f Filters) Values() url.Values {
	v := url.Values{}
	if len(f.Categories) > 0 {
		v.Set("category", strings.Join(f.Categories, ","))
	}
	if len(f.Brands) > 0 {
		v.Set("brands", strings.Join(f.Brands, ","))
	}
	if f.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.IsNew {
		v.Set("isNew", "true")
	}
	if f.IsBestseller {
		v.Set("isBestseller", "true")
	}
	if f.OnSale {
		v.Set("isOnSale", "true")
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// Apply filtre côté client une liste déjà chargée.
func Apply(products []models.Product, f Filters) []models.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
			continue
		}
		if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
			continue
		}
		price := p.EffectivePrice()
		if price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && price > f.MaxPrice {
			continue
		}
		if f.IsNew && !p.IsNew {
			continue
		}
		if f.IsBestseller && !p.IsBestseller {
			continue
		}
		if f.OnSale && !p.OnSale() {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p models.Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.Brand), lowered)
}

// Sort renvoie une copie triée ; "popular" conserve l'ordre serveur.
func Sort(products []models.Product, sortBy string) []models.Product {
	out := slices.Clone(products)
	switch sortBy {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(a.EffectivePrice(), b.EffectivePrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(b.EffectivePrice(), a.EffectivePrice())
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortNew:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(boolRank(b.IsNew), boolRank(a.IsNew))
		})
	case SortDiscount:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmp.Compare(discountRatio(b), discountRatio(a))
		})
	}
	return out
}

func discountRatio(p models.Product) float64 {
	if p.DiscountPrice == nil || *p.DiscountPrice <= 0 || p.Price <= 0 {
		return 0
	}
	return (p.Price.Float() - p.DiscountPrice.Float()) / p.Price.Float()
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Paginate découpe une liste filtrée ; page et limit hors bornes sont normalisés.
func Paginate(products []models.Product, page, limit int) models.ProductsPage {
	if limit < 1 {
		limit = DefaultLimit
	}
	total := len(products)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}

	// Au-delà de la dernière page : tranche vide, sans multiplier page.
	start := total
	if page <= pages {
		start = (page - 1) * limit
	}
	end := min(start+limit, total)

	return models.ProductsPage{
		Products: append([]models.Product{}, products[start:end]...),
		Total:    total,
		Page:     page,
		Pages:    pages,
		Limit:    limit,
		HasMore:  page < pages,
	}
}

// PaginationNumbers renvoie les numéros à afficher, Ellipsis pour « … ».
func PaginationNumbers(current, total int) []int {
	if total <= 5 {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}
	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}

// Related : même catégorie, autre produit, au plus n.
func Related(products []models.Product, product models.Product, n int) []models.Product {
	out := make([]models.Product, 0, n)
	for _, p := range products {
		if len(out) == n {
			break
		}
		if p.Category == product.Category && p.ID != product.ID {
			out = append(out, p)
		}
	}
	return out
}

// BrandsFromProducts : noms de marque distincts, triés.
func BrandsFromProducts(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if p.Brand == "" {
			continue
		}
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		out = append(out, p.Brand)
	}
	slices.Sort(out)
	return out
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
