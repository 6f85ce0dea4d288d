package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"honnylove_storefront/internal/services"
	"honnylove_storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username        string `json:"username" binding:"required,min=2"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	AcceptTerms     bool   `json:"acceptTerms" binding:"required"`
}

// formError traduit la première erreur de validation en message affichable.
func formError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Некорректные данные"
	}

	fe := verrs[0]
	switch {
	case fe.Field() == "ConfirmPassword" && fe.Tag() == "eqfield":
		return "Пароли не совпадают"
	case fe.Field() == "AcceptTerms":
		return "Необходимо принять условия использования"
	case fe.Field() == "Password" && fe.Tag() == "min":
		return "Пароль должен содержать минимум 6 символов"
	case fe.Field() == "Email" && fe.Tag() == "email":
		return "Некорректный email"
	}
	return "Пожалуйста, заполните все обязательные поля"
}

// Login ouvre la session du visiteur. Les jetons restent côté serveur.
func (h *Handler) Login(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formError(err)})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), services.LoginRequest{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.authFailed(c, err, "Неверный email или пароль")
		return
	}

	ws.Session.SetAuth(resp.User, resp.AccessToken, resp.RefreshToken)
	h.logger.Info("✅ Visiteur connecté", zap.String("visitor_id", ws.ID), zap.Int64("user_id", resp.User.ID))
	h.warmUp(c.Request.Context(), ws)

	c.JSON(http.StatusOK, gin.H{"user": resp.User, "isAuthenticated": true})
}

func (h *Handler) Register(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formError(err)})
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), services.RegisterRequest{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.authFailed(c, err, "Не удалось зарегистрироваться")
		return
	}

	ws.Session.SetAuth(resp.User, resp.AccessToken, resp.RefreshToken)
	h.logger.Info("✅ Nouveau compte créé", zap.String("visitor_id", ws.ID), zap.Int64("user_id", resp.User.ID))

	c.JSON(http.StatusCreated, gin.H{"user": resp.User, "isAuthenticated": true})
}

// authFailed : un refus de l'API (4xx) est renvoyé tel quel, le reste en 502.
func (h *Handler) authFailed(c *gin.Context, err error, fallback string) {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		msg := apiErr.Message
		if apiErr.Status == http.StatusUnauthorized || msg == "" {
			msg = fallback
		}
		c.JSON(apiErr.Status, gin.H{"error": msg})
		return
	}

	h.logger.Error("❌ Erreur authentification amont", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "Сервис временно недоступен"})
}

// warmUp charge panier et favoris juste après la connexion ; un échec est
// déjà consigné dans l'état des stores.
func (h *Handler) warmUp(ctx context.Context, ws *store.Workspace) {
	ws.Cart.FetchCart(ctx)
	ws.Wishlist.FetchWishlist(ctx)
}

// Logout vide la session ; les stores sont réinitialisés par le registre.
func (h *Handler) Logout(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	ws.Session.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Вы вышли из аккаунта", "isAuthenticated": false})
}

func (h *Handler) Me(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	snap := ws.Session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"user":            snap.User,
		"isAuthenticated": snap.IsAuthenticated,
	})
}
