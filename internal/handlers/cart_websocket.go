package handlers

import (
	"net/http"
	"time"

	"honnylove_storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := h.origins[origin]
			return ok
		},
	}
}

type wsMessage struct {
	Type            string               `json:"type"`
	Message         string               `json:"message,omitempty"`
	Cart            *store.CartState     `json:"cart,omitempty"`
	Wishlist        *store.WishlistState `json:"wishlist,omitempty"`
	IsAuthenticated *bool                `json:"isAuthenticated,omitempty"`
}

// CartWebSocket pousse l'état du panier et des favoris à chaque changement.
func (h *Handler) CartWebSocket(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	if !ws.Session.IsAuthenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Войдите в аккаунт"})
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("❌ Erreur upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := h.registry.Hub().Subscribe(ws.ID)
	defer unsubscribe()

	// Lecture en tâche de fond : seule la fermeture côté client nous intéresse.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg wsMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("Envoi WebSocket interrompu", zap.Error(err))
			return false
		}
		return true
	}

	cart := ws.Cart.State()
	if !send(wsMessage{Type: "connected", Message: "Синхронизация корзины включена", Cart: &cart}) {
		return
	}

	ticker := time.NewTicker(h.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !send(h.eventMessage(ws, ev)) {
				return
			}
		case <-ticker.C:
			// Ping pour garder la connexion active
			h.registry.Touch(ws.ID)
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) eventMessage(ws *store.Workspace, ev store.Event) wsMessage {
	msg := wsMessage{Type: string(ev.Kind)}
	switch ev.Kind {
	case store.EventCart:
		st := ws.Cart.State()
		msg.Cart = &st
	case store.EventWishlist:
		st := ws.Wishlist.State()
		msg.Wishlist = &st
	case store.EventSession:
		auth := ws.Session.IsAuthenticated()
		msg.IsAuthenticated = &auth
	}
	return msg
}
