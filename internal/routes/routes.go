package routes

import (
	"time"

	"honnylove_storefront/internal/handlers"
	"honnylove_storefront/internal/metrics"
	"honnylove_storefront/internal/middleware"
	"honnylove_storefront/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options regroupe ce dont la table de routes a besoin en plus des handlers.
type Options struct {
	Cookies       sessions.Store
	CookieName    string
	Registry      *store.Registry
	Counter       middleware.Counter
	CartPerMinute int
	APIPerMinute  int
	CORSOrigins   []string
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.Use(middleware.RequestLogger(logger), middleware.HTTPMetrics(opts.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.Use(
		middleware.APIRateLimit(opts.Counter, opts.APIPerMinute, logger),
		middleware.Visitor(opts.Cookies, opts.CookieName, opts.Registry, logger),
	)

	// Catalogue (public)
	api.GET("/products", h.ListProducts)
	api.GET("/products/search", h.SearchProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/brands", h.ListBrands)
	api.GET("/brands/brief", h.BrandsBrief)
	api.GET("/brands/:id", h.GetBrand)
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:id", h.GetCategory)
	api.GET("/settings", h.GetSettings)

	// Authentification
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
	}

	// Panier : les stores renvoient eux-mêmes 401 sans session.
	cart := api.Group("/cart")
	cartLimit := middleware.CartRateLimit(opts.Counter, opts.CartPerMinute, logger)
	{
		cart.GET("", h.GetCart)
		cart.GET("/summary", h.GetCartSummary)
		cart.POST("", cartLimit, h.AddToCart)
		cart.PUT("/:cartItemId", cartLimit, h.UpdateCartItem)
		cart.DELETE("/:cartItemId", cartLimit, h.RemoveCartItem)
		cart.DELETE("", h.ClearCart)
	}

	wishlist := api.Group("/wishlist")
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.POST("", h.AddToWishlist)
		wishlist.DELETE("", h.ClearWishlist)
		wishlist.GET("/:productId", h.IsFavorite)
		wishlist.POST("/:productId/toggle", h.ToggleFavorite)
		wishlist.DELETE("/:productId", h.RemoveFromWishlist)
	}

	api.POST("/checkout", middleware.RequireSession(), h.Checkout)
	api.GET("/ws/cart", h.CartWebSocket)
}
