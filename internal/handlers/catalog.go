package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"honnylove_storefront/internal/catalog"
	"honnylove_storefront/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type productsResponse struct {
	models.ProductsPage
	PageNumbers []int `json:"pageNumbers"`
}

// ListProducts : filtres, tri et pagination de la page Catalogue.
func (h *Handler) ListProducts(c *gin.Context) {
	f := catalog.ParseFilters(c.Request.URL.Query())

	page, err := h.catalog.Products(c.Request.Context(), f)
	if err != nil {
		h.logger.Error("❌ Erreur catalogue", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось загрузить товары"})
		return
	}

	c.JSON(http.StatusOK, productsResponse{
		ProductsPage: page,
		PageNumbers:  catalog.PaginationNumbers(page.Page, page.Pages),
	})
}

// GetProduct renvoie la fiche et les produits de la même catégorie.
func (h *Handler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()

	product, err := h.catalog.Product(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Товар не найден"})
		return
	}

	related, err := h.catalog.Related(ctx, *product)
	if err != nil {
		related = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"product": product, "related": related})
}

func (h *Handler) SearchProducts(c *gin.Context) {
	q := c.Query("q")
	products, err := h.catalog.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Поиск временно недоступен"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "products": products, "total": len(products)})
}

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось загрузить бренды"})
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *Handler) BrandsBrief(c *gin.Context) {
	brief, err := h.catalog.BrandsBrief(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось загрузить бренды"})
		return
	}
	c.JSON(http.StatusOK, brief)
}

// GetBrand accepte un identifiant ou un slug.
func (h *Handler) GetBrand(c *gin.Context) {
	brand, err := h.catalog.Brand(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, catalog.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "Бренд не найден"})
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось загрузить категории"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор"})
		return
	}

	cat, err := h.catalog.Category(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Категория не найдена"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

// GetSettings n'a pas de valeur de secours : l'erreur amont est renvoyée.
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.catalog.Settings(c.Request.Context())
	if err != nil {
		h.logger.Warn("⚠️ Paramètres du site indisponibles", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось загрузить настройки"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
