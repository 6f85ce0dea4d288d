package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSession refuse la requête quand le visiteur n'a pas de session.
// Les stores vérifient eux aussi la session ; ce garde évite seulement de
// lancer un handler pour rien.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := CurrentWorkspace(c)
		if ws == nil || !ws.Session.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Войдите в аккаунт"})
			return
		}

		if user := ws.Session.Snapshot().User; user != nil {
			c.Set("user_id", user.ID)
		}
		c.Next()
	}
}
