package catalog

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"honnylove_storefront/internal/cache"
	"honnylove_storefront/internal/metrics"
	"honnylove_storefront/internal/models"

	"go.uber.org/zap"
)

// ErrNotFound : produit, marque ou catégorie introuvable, y compris dans les données de secours.
var ErrNotFound = errors.New("introuvable")

const (
	RelatedLimit = 4
	searchLimit  = 50
)

// API est la partie catalogue de l'API boutique. *services.Client l'implémente.
type API interface {
	GetProducts(ctx context.Context, query url.Values) (*models.ProductsPage, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	GetBrands(ctx context.Context) ([]models.ApiBrand, error)
	GetBrandByID(ctx context.Context, id string) (*models.ApiBrand, error)
	GetBrandsBrief(ctx context.Context) ([]models.BrandBrief, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetSettings(ctx context.Context) (*models.SiteSettings, error)
}

// Cache est un cache JSON à durée de vie. *cache.Cache l'implémente.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service lit le catalogue : API d'abord, cache Redis devant, données de
// secours filtrées côté client quand l'API est indisponible.
type Service struct {
	api      API
	cache    Cache
	index    SearchIndex
	fallback *Fallback
	ttl      time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithSearchIndex(idx SearchIndex) Option {
	return func(s *Service) {
		s.index = idx
	}
}

func WithFallback(fb *Fallback) Option {
	return func(s *Service) {
		s.fallback = fb
	}
}

// WithProductTTL fixe la durée de cache des produits et marques.
func WithProductTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(api API, opts ...Option) *Service {
	s := &Service{
		api:    api,
		ttl:    cache.ProductCacheTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cached lit key dans le cache, sinon appelle fetch et met le résultat en cache.
// Les erreurs de cache ne sont jamais remontées.
func cached[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if s.cache != nil {
		var v T
		hit, err := s.cache.GetJSON(ctx, key, &v)
		if err != nil {
			s.logger.Debug("Cache catalogue indisponible", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return v, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, v, ttl); err != nil {
			s.logger.Debug("Écriture cache catalogue échouée", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (s *Service) fellBack(resource string, err error) {
	s.metrics.ObserveFallback(resource)
	s.logger.Warn("⚠️ API indisponible, données de secours", zap.String("resource", resource), zap.Error(err))
}

// Products renvoie une page triée. Avec une recherche texte, les résultats de
// Search sont filtrés et paginés côté vitrine.
func (s *Service) Products(ctx context.Context, f Filters) (models.ProductsPage, error) {
	f = f.normalized()

	if f.Query != "" {
		found, err := s.Search(ctx, f.Query)
		if err != nil {
			return models.ProductsPage{}, err
		}
		rest := f
		rest.Query = ""
		return Paginate(Sort(Apply(found, rest), f.Sort), f.Page, f.Limit), nil
	}

	query := f.Values()
	page, err := cached(ctx, s, "catalog:products:"+query.Encode(), s.ttl, func() (*models.ProductsPage, error) {
		return s.api.GetProducts(ctx, query)
	})
	if err != nil {
		s.fellBack("products", err)
		return Paginate(Sort(Apply(s.fallback.products(), f), f.Sort), f.Page, f.Limit), nil
	}

	out := *page
	out.Products = Sort(page.Products, f.Sort)
	if out.Limit == 0 {
		out.Limit = f.Limit
	}
	return out, nil
}

func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	p, err := cached(ctx, s, "catalog:product:"+id, s.ttl, func() (*models.Product, error) {
		return s.api.GetProductByID(ctx, id)
	})
	if err == nil {
		return p, nil
	}

	s.fellBack("product", err)
	if fp, ok := s.fallback.product(id); ok {
		return &fp, nil
	}
	return nil, ErrNotFound
}

// Related : jusqu'à RelatedLimit produits de la même catégorie.
func (s *Service) Related(ctx context.Context, p models.Product) ([]models.Product, error) {
	page, err := s.Products(ctx, Filters{Categories: []string{p.Category}, Limit: RelatedLimit + 1})
	if err != nil {
		return nil, err
	}
	return Related(page.Products, p, RelatedLimit), nil
}

// Search : requête vide = aucun résultat ; puis index Elasticsearch,
// puis recherche API, puis filtre sur les données de secours.
func (s *Service) Search(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Product{}, nil
	}

	if s.index != nil {
		found, err := s.index.Search(ctx, q, searchLimit)
		if err == nil && len(found) > 0 {
			return found, nil
		}
		if err != nil {
			s.logger.Warn("⚠️ Recherche Elasticsearch échouée, repli sur l'API", zap.Error(err))
		}
	}

	found, err := cached(ctx, s, "catalog:search:"+strings.ToLower(q), s.ttl, func() ([]models.Product, error) {
		return s.api.SearchProducts(ctx, q)
	})
	if err == nil {
		if found == nil {
			found = []models.Product{}
		}
		return found, nil
	}

	s.fellBack("search", err)
	return Apply(s.fallback.products(), Filters{Query: q}), nil
}

func (s *Service) Brands(ctx context.Context) ([]models.Brand, error) {
	brands, err := cached(ctx, s, "catalog:brands", s.ttl, func() ([]models.Brand, error) {
		raw, err := s.api.GetBrands(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.Brand, 0, len(raw))
		for _, b := range raw {
			out = append(out, b.ToBrand())
		}
		return out, nil
	})
	if err != nil {
		s.fellBack("brands", err)
		return s.fallback.brands(), nil
	}
	return brands, nil
}

// Brand accepte un identifiant ou un slug (nom en minuscules, espaces en tirets).
func (s *Service) Brand(ctx context.Context, idOrSlug string) (*models.Brand, error) {
	brands, err := s.Brands(ctx)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(idOrSlug)
	for _, b := range brands {
		if b.ID == idOrSlug || b.Slug() == key {
			return &b, nil
		}
	}

	// Marque absente de la liste (inactive par exemple) : lecture directe.
	if _, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		raw, err := s.api.GetBrandByID(ctx, idOrSlug)
		if err == nil {
			b := raw.ToBrand()
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) BrandsBrief(ctx context.Context) ([]models.BrandBrief, error) {
	brief, err := cached(ctx, s, "catalog:brands:brief", s.ttl, func() ([]models.BrandBrief, error) {
		return s.api.GetBrandsBrief(ctx)
	})
	if err == nil {
		return brief, nil
	}

	s.fellBack("brands_brief", err)
	brands := s.fallback.brands()
	out := make([]models.BrandBrief, 0, len(brands))
	for _, b := range brands {
		id, _ := strconv.ParseInt(b.ID, 10, 64)
		out = append(out, models.BrandBrief{ID: id, Slug: b.Slug(), Name: b.Name, Logo: b.Logo})
	}
	return out, nil
}

// Categories : catégories statiques si l'API échoue ou n'en renvoie aucune.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := cached(ctx, s, "catalog:categories", cache.CategoryCacheTTL, func() ([]models.Category, error) {
		return s.api.GetCategories(ctx)
	})
	if err != nil {
		s.fellBack("categories", err)
		return StaticCategories, nil
	}
	if len(cats) == 0 {
		return StaticCategories, nil
	}
	return cats, nil
}

func (s *Service) Category(ctx context.Context, id int64) (*models.Category, error) {
	c, err := cached(ctx, s, "catalog:category:"+strconv.FormatInt(id, 10), cache.CategoryCacheTTL, func() (*models.Category, error) {
		return s.api.GetCategoryByID(ctx, id)
	})
	if err == nil {
		return c, nil
	}

	if sc, ok := staticCategory(id); ok {
		s.fellBack("category", err)
		return &sc, nil
	}
	return nil, ErrNotFound
}

// Settings n'a pas de données de secours : l'erreur est remontée.
func (s *Service) Settings(ctx context.Context) (*models.SiteSettings, error) {
	return cached(ctx, s, "catalog:settings", cache.SettingsCacheTTL, func() (*models.SiteSettings, error) {
		return s.api.GetSettings(ctx)
	})
}

// Reindex recopie tout le catalogue de l'API dans l'index de recherche.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, errors.New("aucun index de recherche configuré")
	}

	var all []models.Product
	for page := 1; ; page++ {
		res, err := s.api.GetProducts(ctx, Filters{Page: page, Limit: MaxLimit}.Values())
		if err != nil {
			return 0, err
		}
		all = append(all, res.Products...)
		if !res.HasMore || len(res.Products) == 0 {
			break
		}
	}
	return s.index.IndexProducts(ctx, all)
}
