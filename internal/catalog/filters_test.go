package catalog

import (
	"math"
	"net/url"
	"reflect"
	"testing"

	"honnylove_storefront/internal/models"
)

func price(v float64) *models.Price {
	p := models.Price(v)
	return &p
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Тонер с центеллой", Brand: "COSRX", Category: "face", Price: 1500, Rating: 4.5, IsBestseller: true},
		{ID: "2", Name: "Крем для тела", Brand: "Round Lab", Category: "body", Price: 2000, DiscountPrice: price(1000), Rating: 4.9},
		{ID: "3", Name: "Тушь", Brand: "Clio", Category: "makeup", Price: 900, Rating: 4.1, IsNew: true},
		{ID: "4", Name: "Пижама шёлковая", Brand: "HonnyLove", Category: "pajamas", Price: 4800, DiscountPrice: price(4320), Rating: 5},
		{ID: "5", Name: "Маска для лица", Brand: "COSRX", Category: "face", Price: 300, IsNew: true},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestParseFilters(t *testing.T) {
	q := url.Values{
		"category": {"face, body"},
		"brands":   {"COSRX"},
		"minPrice": {"100"},
		"maxPrice": {"2000"},
		"isNew":    {"true"},
		"isOnSale": {"false"},
		"q":        {"  крем "},
		"page":     {"0"},
		"limit":    {"500"},
	}
	f := ParseFilters(q)

	if !reflect.DeepEqual(f.Categories, []string{"face", "body"}) {
		t.Errorf("Categories = %v", f.Categories)
	}
	if f.MinPrice != 100 || f.MaxPrice != 2000 || !f.IsNew || f.OnSale {
		t.Errorf("filters = %+v", f)
	}
	if f.Query != "крем" {
		t.Errorf("Query = %q, want %q", f.Query, "крем")
	}
	if f.Page != 1 || f.Limit != MaxLimit || f.Sort != SortPopular {
		t.Errorf("Page/Limit/Sort = %d/%d/%q, want 1/%d/%q", f.Page, f.Limit, f.Sort, MaxLimit, SortPopular)
	}

	if got := ParseFilters(url.Values{"page": {"4611686018427387904"}}).Page; got != MaxPage {
		t.Errorf("huge page parsed as %d, want %d", got, MaxPage)
	}

	v := f.Values()
	if v.Get("category") != "face,body" || v.Get("isNew") != "true" || v.Has("isOnSale") {
		t.Errorf("Values() = %v", v)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		f    Filters
		want []string
	}{
		{"no filter", Filters{}, []string{"1", "2", "3", "4", "5"}},
		{"category", Filters{Categories: []string{"face"}}, []string{"1", "5"}},
		{"brand", Filters{Brands: []string{"Clio", "HonnyLove"}}, []string{"3", "4"}},
		{"price uses discount", Filters{MinPrice: 1000, MaxPrice: 1500}, []string{"1", "2"}},
		{"new", Filters{IsNew: true}, []string{"3", "5"}},
		{"bestseller", Filters{IsBestseller: true}, []string{"1"}},
		{"on sale", Filters{OnSale: true}, []string{"2", "4"}},
		{"query on name", Filters{Query: "КРЕМ"}, []string{"2"}},
		{"query on brand", Filters{Query: "cosrx"}, []string{"1", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Apply(sampleProducts(), tt.f)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		sortBy string
		want   []string
	}{
		{SortPopular, []string{"1", "2", "3", "4", "5"}},
		{SortPriceAsc, []string{"5", "3", "2", "1", "4"}},
		{SortPriceDesc, []string{"4", "1", "2", "3", "5"}},
		{SortRating, []string{"4", "2", "1", "3", "5"}},
		{SortNew, []string{"3", "5", "1", "2", "4"}},
		{SortDiscount, []string{"2", "4", "1", "3", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			in := sampleProducts()
			if got := ids(Sort(in, tt.sortBy)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort(%q) = %v, want %v", tt.sortBy, got, tt.want)
			}
			if ids(in)[0] != "1" {
				t.Error("Sort() modified its input")
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	page := Paginate(sampleProducts(), 2, 2)
	if !reflect.DeepEqual(ids(page.Products), []string{"3", "4"}) {
		t.Errorf("products = %v, want [3 4]", ids(page.Products))
	}
	if page.Total != 5 || page.Pages != 3 || !page.HasMore {
		t.Errorf("page = %+v", page)
	}

	last := Paginate(sampleProducts(), 9, 2)
	if len(last.Products) != 0 || last.HasMore {
		t.Errorf("out of range page = %+v", last)
	}

	huge := Paginate(sampleProducts(), math.MaxInt/2+1, 20)
	if len(huge.Products) != 0 || huge.HasMore || huge.Total != 5 {
		t.Errorf("huge page = %+v", huge)
	}

	empty := Paginate(nil, 1, 20)
	if empty.Pages != 1 || empty.Total != 0 || empty.Products == nil {
		t.Errorf("empty page = %+v", empty)
	}
}

func TestPaginationNumbers(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 3, []int{1, 2, 3}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{2, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{9, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
	}
	for _, tt := range tests {
		if got := PaginationNumbers(tt.current, tt.total); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PaginationNumbers(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestRelatedAndBrands(t *testing.T) {
	products := sampleProducts()
	if got := ids(Related(products, products[0], 4)); !reflect.DeepEqual(got, []string{"5"}) {
		t.Errorf("Related() = %v, want [5]", got)
	}

	want := []string{"COSRX", "Clio", "HonnyLove", "Round Lab"}
	if got := BrandsFromProducts(products); !reflect.DeepEqual(got, want) {
		t.Errorf("BrandsFromProducts() = %v, want %v", got, want)
	}
}
