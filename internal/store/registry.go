package store

import (
	"context"
	"sync"
	"time"

	"honnylove_storefront/internal/auth"
	"honnylove_storefront/internal/metrics"

	"go.uber.org/zap"
)

// UpstreamAPI regroupe tout ce dont un espace visiteur a besoin côté API.
// *services.Client l'implémente.
type UpstreamAPI interface {
	CartAPI
	WishlistAPI
	auth.Refresher
}

// SessionRepository persiste les sessions visiteur (Redis en production).
// Load renvoie (nil, nil) si aucune session n'est enregistrée.
type SessionRepository interface {
	Load(ctx context.Context, visitorID string) (*auth.Snapshot, error)
	Save(ctx context.Context, visitorID string, snap auth.Snapshot) error
	Delete(ctx context.Context, visitorID string) error
}

// Workspace regroupe la session et les deux stores d'un visiteur.
type Workspace struct {
	ID       string
	Session  *auth.Session
	Tokens   *auth.TokenProvider
	Cart     *CartStore
	Wishlist *WishlistStore

	lastSeen time.Time
}

type Registry struct {
	api          UpstreamAPI
	sessions     SessionRepository
	hub          *Hub
	logger       *zap.Logger
	metrics      *metrics.Metrics
	providerOpts []auth.ProviderOption
	now          func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

type RegistryOption func(*Registry)

// WithSessionRepository active la persistance des sessions. Sans elle, une
// session ne survit pas à l'éviction de l'espace ou au redémarrage.
func WithSessionRepository(repo SessionRepository) RegistryOption {
	return func(r *Registry) {
		r.sessions = repo
	}
}

func WithHub(h *Hub) RegistryOption {
	return func(r *Registry) {
		r.hub = h
	}
}

func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

func WithRegistryMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithProviderOptions est transmis à chaque TokenProvider créé.
func WithProviderOptions(opts ...auth.ProviderOption) RegistryOption {
	return func(r *Registry) {
		r.providerOpts = append(r.providerOpts, opts...)
	}
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(api UpstreamAPI, opts ...RegistryOption) *Registry {
	r := &Registry{
		api:        api,
		logger:     zap.NewNop(),
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.hub == nil {
		r.hub = NewHub()
	}
	return r
}

func (r *Registry) Hub() *Hub {
	return r.hub
}

// Workspace renvoie l'espace du visiteur, créé à la demande. Une session
// persistée est restaurée ; une erreur de lecture donne une session vide.
func (r *Registry) Workspace(ctx context.Context, visitorID string) *Workspace {
	if ws := r.lookup(visitorID); ws != nil {
		return ws
	}

	var snap *auth.Snapshot
	if r.sessions != nil {
		loaded, err := r.sessions.Load(ctx, visitorID)
		if err != nil {
			r.logger.Warn("⚠️ Session visiteur illisible, nouvelle session", zap.String("visitor_id", visitorID), zap.Error(err))
		} else {
			snap = loaded
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.workspaces[visitorID]; ok {
		ws.lastSeen = r.now()
		return ws
	}

	ws := r.build(visitorID, snap)
	r.workspaces[visitorID] = ws
	r.metrics.SetWorkspaces(len(r.workspaces))
	return ws
}

func (r *Registry) lookup(visitorID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[visitorID]
	if !ok {
		return nil
	}
	ws.lastSeen = r.now()
	return ws
}

func (r *Registry) build(visitorID string, snap *auth.Snapshot) *Workspace {
	session := auth.NewSession()
	if snap != nil {
		session = auth.RestoreSession(*snap)
	}

	logger := r.logger
	opts := append([]auth.ProviderOption{
		auth.WithProviderLogger(logger.With(zap.String("visitor_id", visitorID))),
		auth.WithProviderMetrics(r.metrics),
	}, r.providerOpts...)
	tokens := auth.NewTokenProvider(session, r.api, opts...)

	ws := &Workspace{
		ID:       visitorID,
		Session:  session,
		Tokens:   tokens,
		Cart:     NewCartStore(visitorID, r.api, tokens, r.hub, logger, r.metrics),
		Wishlist: NewWishlistStore(visitorID, r.api, tokens, r.hub, logger, r.metrics),
		lastSeen: r.now(),
	}
	session.OnChange(func(s auth.Snapshot) {
		r.sessionChanged(ws, s)
	})
	return ws
}

// sessionChanged persiste la session ; à la déconnexion, les stores sont vidés
// et l'entrée persistée supprimée.
func (r *Registry) sessionChanged(ws *Workspace, snap auth.Snapshot) {
	if !snap.IsAuthenticated {
		ws.Cart.Reset()
		ws.Wishlist.Reset()
	}

	if r.sessions != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		var err error
		if snap.IsAuthenticated {
			err = r.sessions.Save(ctx, ws.ID, snap)
		} else {
			err = r.sessions.Delete(ctx, ws.ID)
		}
		if err != nil {
			r.logger.Error("❌ Erreur persistance session", zap.String("visitor_id", ws.ID), zap.Error(err))
		}
	}

	r.hub.Publish(Event{VisitorID: ws.ID, Kind: EventSession})
}

// Forget retire l'espace de la mémoire ; la session persistée est conservée.
func (r *Registry) Forget(visitorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, visitorID)
	r.metrics.SetWorkspaces(len(r.workspaces))
}

// Touch prolonge la vie d'un espace encore utilisé (websocket ouvert).
func (r *Registry) Touch(visitorID string) {
	r.lookup(visitorID)
}

// Sweep évince les espaces inactifs depuis plus de maxIdle et renvoie leur
// nombre. Un espace suivi par un abonné du hub n'est jamais évincé : le
// websocket lit ses stores.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, ws := range r.workspaces {
		if ws.lastSeen.Before(cutoff) && r.hub.Subscribers(id) == 0 {
			delete(r.workspaces, id)
			evicted++
		}
	}
	r.metrics.SetWorkspaces(len(r.workspaces))
	return evicted
}

// RunSweeper appelle Sweep à intervalle régulier jusqu'à l'annulation du contexte.
func (r *Registry) RunSweeper(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.logger.Info("🧹 Espaces visiteurs inactifs évincés", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
