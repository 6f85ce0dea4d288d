package catalog

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"sync"
	"testing"

	"honnylove_storefront/internal/cache"
	"honnylove_storefront/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var errDown = errors.New("api down")

type fakeCatalogAPI struct {
	mu    sync.Mutex
	calls map[string]int
	down  bool

	products []models.Product
	brands   []models.ApiBrand
	cats     []models.Category
}

func newFakeCatalogAPI() *fakeCatalogAPI {
	return &fakeCatalogAPI{calls: make(map[string]int), products: sampleProducts()}
}

func (f *fakeCatalogAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.down {
		return errDown
	}
	return nil
}

func (f *fakeCatalogAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalogAPI) GetProducts(_ context.Context, q url.Values) (*models.ProductsPage, error) {
	if err := f.hit("products"); err != nil {
		return nil, err
	}
	page := Paginate(Apply(f.products, Filters{Categories: splitCSV(q.Get("category"))}), parseInt(q.Get("page")), parseInt(q.Get("limit")))
	return &page, nil
}

func (f *fakeCatalogAPI) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	if err := f.hit("product"); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errors.New("404")
}

func (f *fakeCatalogAPI) SearchProducts(_ context.Context, q string) ([]models.Product, error) {
	if err := f.hit("search"); err != nil {
		return nil, err
	}
	return Apply(f.products, Filters{Query: q}), nil
}

func (f *fakeCatalogAPI) GetBrands(context.Context) ([]models.ApiBrand, error) {
	if err := f.hit("brands"); err != nil {
		return nil, err
	}
	return f.brands, nil
}

func (f *fakeCatalogAPI) GetBrandByID(_ context.Context, id string) (*models.ApiBrand, error) {
	if err := f.hit("brand"); err != nil {
		return nil, err
	}
	return nil, errors.New("404")
}

func (f *fakeCatalogAPI) GetBrandsBrief(context.Context) ([]models.BrandBrief, error) {
	if err := f.hit("brief"); err != nil {
		return nil, err
	}
	return []models.BrandBrief{}, nil
}

func (f *fakeCatalogAPI) GetCategories(context.Context) ([]models.Category, error) {
	if err := f.hit("categories"); err != nil {
		return nil, err
	}
	return f.cats, nil
}

func (f *fakeCatalogAPI) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	if err := f.hit("category"); err != nil {
		return nil, err
	}
	return nil, errors.New("404")
}

func (f *fakeCatalogAPI) GetSettings(context.Context) (*models.SiteSettings, error) {
	if err := f.hit("settings"); err != nil {
		return nil, err
	}
	return &models.SiteSettings{Phone: "+7 900 000-00-00"}, nil
}

type stubIndex struct {
	results []models.Product
	err     error
	indexed []models.Product
}

func (s *stubIndex) Search(context.Context, string, int) ([]models.Product, error) {
	return s.results, s.err
}

func (s *stubIndex) IndexProducts(_ context.Context, products []models.Product) (int, error) {
	s.indexed = products
	return len(products), nil
}

func TestService_ProductsSortsUpstreamPage(t *testing.T) {
	api := newFakeCatalogAPI()
	s := NewService(api)

	page, err := s.Products(context.Background(), Filters{Categories: []string{"face"}, Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("Products() error: %v", err)
	}
	if got := ids(page.Products); !reflect.DeepEqual(got, []string{"5", "1"}) {
		t.Errorf("products = %v, want [5 1]", got)
	}
}

func TestService_ProductsFallback(t *testing.T) {
	api := newFakeCatalogAPI()
	api.down = true
	fb := &Fallback{Products: sampleProducts()}
	s := NewService(api, WithFallback(fb))

	page, err := s.Products(context.Background(), Filters{OnSale: true, Sort: SortDiscount})
	if err != nil {
		t.Fatalf("Products() error: %v", err)
	}
	if got := ids(page.Products); !reflect.DeepEqual(got, []string{"2", "4"}) {
		t.Errorf("products = %v, want [2 4]", got)
	}

	empty := NewService(api)
	page, err = empty.Products(context.Background(), Filters{})
	if err != nil || page.Total != 0 {
		t.Errorf("Products() without fallback = (%+v, %v), want empty page", page, err)
	}
}

func TestService_CachesUpstreamReads(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	api := newFakeCatalogAPI()
	s := NewService(api, WithCache(cache.New(rdb, nil)))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Settings(ctx); err != nil {
			t.Fatalf("Settings() error: %v", err)
		}
		if _, err := s.Products(ctx, Filters{}); err != nil {
			t.Fatalf("Products() error: %v", err)
		}
	}
	if api.count("settings") != 1 || api.count("products") != 1 {
		t.Errorf("calls = %v, want one upstream call each", api.calls)
	}
}

func TestService_SettingsHasNoFallback(t *testing.T) {
	api := newFakeCatalogAPI()
	api.down = true
	s := NewService(api)

	if _, err := s.Settings(context.Background()); !errors.Is(err, errDown) {
		t.Errorf("Settings() error = %v, want errDown", err)
	}
}

func TestService_SearchOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		api := newFakeCatalogAPI()
		got, err := NewService(api).Search(ctx, "   ")
		if err != nil || len(got) != 0 || got == nil {
			t.Errorf("Search() = (%v, %v), want empty slice", got, err)
		}
		if api.count("search") != 0 {
			t.Error("empty query reached the API")
		}
	})

	t.Run("index first", func(t *testing.T) {
		api := newFakeCatalogAPI()
		idx := &stubIndex{results: []models.Product{{ID: "42"}}}
		got, _ := NewService(api, WithSearchIndex(idx)).Search(ctx, "тонер")
		if !reflect.DeepEqual(ids(got), []string{"42"}) || api.count("search") != 0 {
			t.Errorf("Search() = %v with %d API calls, want index results only", ids(got), api.count("search"))
		}
	})

	t.Run("index error falls back to API", func(t *testing.T) {
		api := newFakeCatalogAPI()
		idx := &stubIndex{err: errors.New("es down")}
		got, _ := NewService(api, WithSearchIndex(idx)).Search(ctx, "тонер")
		if !reflect.DeepEqual(ids(got), []string{"1"}) {
			t.Errorf("Search() = %v, want [1]", ids(got))
		}
	})

	t.Run("API down uses fallback", func(t *testing.T) {
		api := newFakeCatalogAPI()
		api.down = true
		got, _ := NewService(api, WithFallback(&Fallback{Products: sampleProducts()})).Search(ctx, "cosrx")
		if !reflect.DeepEqual(ids(got), []string{"1", "5"}) {
			t.Errorf("Search() = %v, want [1 5]", ids(got))
		}
	})
}

func TestService_ProductFallbackAndNotFound(t *testing.T) {
	api := newFakeCatalogAPI()
	api.down = true
	s := NewService(api, WithFallback(&Fallback{Products: sampleProducts()}))

	p, err := s.Product(context.Background(), "3")
	if err != nil || p.Name != "Тушь" {
		t.Errorf("Product(3) = (%+v, %v)", p, err)
	}
	if _, err := s.Product(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Product(404) error = %v, want ErrNotFound", err)
	}
}

func TestService_BrandsNormalizedAndSlugLookup(t *testing.T) {
	api := newFakeCatalogAPI()
	api.brands = []models.ApiBrand{{ID: 7, Name: "Round Lab", Description: "Корейский уход"}}
	s := NewService(api)
	ctx := context.Background()

	brands, err := s.Brands(ctx)
	if err != nil || len(brands) != 1 {
		t.Fatalf("Brands() = (%v, %v)", brands, err)
	}
	b := brands[0]
	if b.Logo != models.DefaultBrandLogo || b.Country != models.DefaultBrandCountry || b.Philosophy != "Корейский уход" {
		t.Errorf("brand defaults not applied: %+v", b)
	}

	for _, key := range []string{"7", "round-lab", "Round-Lab"} {
		got, err := s.Brand(ctx, key)
		if err != nil || got.ID != "7" {
			t.Errorf("Brand(%q) = (%+v, %v), want id 7", key, got, err)
		}
	}
	if _, err := s.Brand(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Brand(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestService_CategoriesFallBackToStatic(t *testing.T) {
	api := newFakeCatalogAPI()
	s := NewService(api)
	ctx := context.Background()

	cats, _ := s.Categories(ctx)
	if len(cats) != len(StaticCategories) {
		t.Errorf("empty API: len(categories) = %d, want %d", len(cats), len(StaticCategories))
	}

	api.down = true
	c, err := s.Category(ctx, 4)
	if err != nil || c.Slug != "pajamas" {
		t.Errorf("Category(4) = (%+v, %v), want pajamas", c, err)
	}
	if _, err := s.Category(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Category(99) error = %v, want ErrNotFound", err)
	}
}

func TestService_Reindex(t *testing.T) {
	api := newFakeCatalogAPI()
	idx := &stubIndex{}
	s := NewService(api, WithSearchIndex(idx))

	n, err := s.Reindex(context.Background())
	if err != nil {
		t.Fatalf("Reindex() error: %v", err)
	}
	if n != len(sampleProducts()) || len(idx.indexed) != n {
		t.Errorf("Reindex() = %d, indexed %d, want %d", n, len(idx.indexed), len(sampleProducts()))
	}

	if _, err := NewService(api).Reindex(context.Background()); err == nil {
		t.Error("Reindex() without index error = nil")
	}
}
