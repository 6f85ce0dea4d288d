package middleware

import (
	"net/http"

	"honnylove_storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	visitorKey   = "visitor_id"
	workspaceKey = "workspace"
)

// NewCookieStore construit le store de cookies signés du visiteur.
func NewCookieStore(secret string, maxAgeSeconds int, secure bool) *sessions.CookieStore {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.MaxAge(maxAgeSeconds)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

// Visitor identifie le visiteur par un cookie signé et charge son espace.
// Un cookie absent ou illisible donne un nouvel identifiant.
func Visitor(cs sessions.Store, cookieName string, reg *store.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := cs.Get(c.Request, cookieName)
		if err != nil {
			logger.Debug("Cookie visiteur invalide, nouvel identifiant", zap.Error(err))
		}

		visitorID, _ := sess.Values[visitorKey].(string)
		if _, perr := uuid.Parse(visitorID); perr != nil {
			visitorID = uuid.NewString()
			sess.Values[visitorKey] = visitorID
			if err := sess.Save(c.Request, c.Writer); err != nil {
				logger.Error("❌ Erreur écriture cookie visiteur", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сервера"})
				return
			}
		}

		c.Set(visitorKey, visitorID)
		c.Set(workspaceKey, reg.Workspace(c.Request.Context(), visitorID))
		c.Next()
	}
}

// VisitorID renvoie l'identifiant posé par Visitor.
func VisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

// CurrentWorkspace renvoie l'espace posé par Visitor, nil hors de ce middleware.
func CurrentWorkspace(c *gin.Context) *store.Workspace {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*store.Workspace)
	return ws
}
