package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"honnylove_storefront/internal/catalog"
	"honnylove_storefront/internal/middleware"
	"honnylove_storefront/internal/models"
	"honnylove_storefront/internal/services"
	"honnylove_storefront/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthAPI : connexion et inscription amont. *services.Client l'implémente.
type AuthAPI interface {
	Login(ctx context.Context, req services.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req services.RegisterRequest) (*models.AuthResponse, error)
}

// OrderMailer envoie la confirmation de commande. *utils.Mailer l'implémente.
type OrderMailer interface {
	Enabled() bool
	SendOrderConfirmation(ctx context.Context, order models.Order) error
}

// Pinger est une dépendance vérifiée par /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapte une fonction en Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Deps struct {
	Registry       *store.Registry
	Catalog        *catalog.Service
	Auth           AuthAPI
	Mailer         OrderMailer
	Checks         map[string]Pinger
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Handler porte les dépendances des routes ; aucune variable globale.
type Handler struct {
	registry *store.Registry
	catalog  *catalog.Service
	auth     AuthAPI
	mailer   OrderMailer
	checks   map[string]Pinger
	origins  map[string]struct{}
	logger   *zap.Logger

	pingEvery time.Duration
}

func New(d Deps) *Handler {
	h := &Handler{
		registry:  d.Registry,
		catalog:   d.Catalog,
		auth:      d.Auth,
		mailer:    d.Mailer,
		checks:    d.Checks,
		origins:   make(map[string]struct{}, len(d.AllowedOrigins)),
		logger:    d.Logger,
		pingEvery: 30 * time.Second,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	for _, o := range d.AllowedOrigins {
		h.origins[o] = struct{}{}
	}
	return h
}

// workspace renvoie l'espace du visiteur ; sans middleware Visitor la requête
// est refusée.
func (h *Handler) workspace(c *gin.Context) (*store.Workspace, bool) {
	ws := middleware.CurrentWorkspace(c)
	if ws == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
		return nil, false
	}
	return ws, true
}

// outcomeStatus : OK 200, sans session 401, doublon 409, échec amont 502.
func outcomeStatus(o store.Outcome) int {
	switch o {
	case store.OutcomeOK:
		return http.StatusOK
	case store.OutcomeUnauthenticated:
		return http.StatusUnauthorized
	case store.OutcomeDuplicate:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func outcomeMessage(o store.Outcome, fallback string) string {
	switch o {
	case store.OutcomeUnauthenticated:
		return "Войдите в аккаунт"
	case store.OutcomeDuplicate:
		return services.DuplicateWishlistMessage
	default:
		return fallback
	}
}

// respondOutcome écrit la réponse d'erreur d'une opération ; renvoie false si
// l'opération a échoué.
func respondOutcome(c *gin.Context, o store.Outcome, failMessage string) bool {
	if o.OK() {
		return true
	}
	c.JSON(outcomeStatus(o), gin.H{
		"error":   outcomeMessage(o, failMessage),
		"outcome": o.String(),
	})
	return false
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор"})
		return 0, false
	}
	return id, true
}
