package store

import (
	"context"

	"honnylove_storefront/internal/metrics"
	"honnylove_storefront/internal/models"

	"go.uber.org/zap"
)

// TokenResolver fournit un jeton d'accès frais avant chaque appel authentifié.
// *auth.TokenProvider l'implémente.
type TokenResolver interface {
	ResolveToken(ctx context.Context) (string, bool)
}

// CartAPI est la partie panier de l'API boutique.
type CartAPI interface {
	GetCart(ctx context.Context, token string) (*models.CartResponse, error)
	AddToCart(ctx context.Context, token string, productID int64, quantity int) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, token string, cartItemID int64, quantity int) (*models.UpdateCartResponse, error)
	RemoveFromCart(ctx context.Context, token string, cartItemID int64) (*models.RemoveCartResponse, error)
	ClearCart(ctx context.Context, token string) error
}

const cartFetchError = "Не удалось загрузить корзину"

// CartState est l'instantané lu par l'interface.
type CartState struct {
	Items      []models.CartItem   `json:"items"`
	Summary    *models.CartSummary `json:"summary"`
	IsLoading  bool                `json:"isLoading"`
	Error      string              `json:"error,omitempty"`
	Phase      Phase               `json:"phase"`
	TotalItems int                 `json:"totalItems"`
	TotalPrice float64             `json:"totalPrice"`
}

// CartStore reflète le panier serveur. Les lignes et le résumé viennent
// toujours de la même réponse serveur ; le résumé n'est jamais recalculé
// à partir des lignes.
type CartStore struct {
	sync    syncState
	api     CartAPI
	tokens  TokenResolver
	logger  *zap.Logger
	metrics *metrics.Metrics

	items   []models.CartItem
	summary *models.CartSummary
}

func NewCartStore(visitorID string, api CartAPI, tokens TokenResolver, hub *Hub, logger *zap.Logger, m *metrics.Metrics) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{
		sync:    newSyncState(visitorID, EventCart, hub),
		api:     api,
		tokens:  tokens,
		logger:  logger.With(zap.String("store", "cart"), zap.String("visitor_id", visitorID)),
		metrics: m,
		items:   []models.CartItem{},
	}
}

// FetchCart remplace lignes et résumé en bloc. En cas d'échec, l'état
// précédent est conservé et Error est renseigné.
func (s *CartStore) FetchCart(ctx context.Context) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("fetch", OutcomeUnauthenticated)
	}
	return s.done("fetch", s.fetch(ctx, token))
}

func (s *CartStore) fetch(ctx context.Context, token string) Outcome {
	seq := s.sync.beginLoading()

	resp, err := s.api.GetCart(ctx, token)
	if err != nil {
		s.logger.Warn("❌ Erreur chargement panier", zap.Error(err))
		s.sync.failLoading(seq, cartFetchError)
		return OutcomeFailed
	}

	applied := s.sync.finishLoading(seq, func() {
		s.items = cloneCartItems(resp.Items)
		s.summary = cloneSummary(resp.Summary)
	})
	if !applied {
		s.logger.Debug("Réponse panier périmée ignorée", zap.Uint64("seq", seq))
	}
	return OutcomeOK
}

// AddToCart ajoute un produit puis resynchronise tout le panier avec le même
// jeton : un seul rafraîchissement par opération. quantity <= 0 vaut 1.
func (s *CartStore) AddToCart(ctx context.Context, productID int64, quantity int) Outcome {
	if quantity <= 0 {
		quantity = 1
	}

	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("add", OutcomeUnauthenticated)
	}

	if _, err := s.api.AddToCart(ctx, token, productID, quantity); err != nil {
		s.logger.Warn("❌ Erreur ajout au panier", zap.Int64("product_id", productID), zap.Error(err))
		return s.done("add", OutcomeFailed)
	}

	// Un échec du rechargement renseigne Error mais l'ajout, lui, a réussi.
	s.fetch(ctx, token)
	return s.done("add", OutcomeOK)
}

// UpdateQuantity remplace la ligne concernée et le résumé depuis la réponse.
// quantity < 1 doit être routé vers RemoveFromCart par l'appelant.
func (s *CartStore) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("update", OutcomeUnauthenticated)
	}

	seq := s.sync.begin()
	resp, err := s.api.UpdateCartItem(ctx, token, cartItemID, quantity)
	if err != nil {
		s.logger.Warn("❌ Erreur mise à jour quantité", zap.Int64("cart_item_id", cartItemID), zap.Error(err))
		return s.done("update", OutcomeFailed)
	}

	s.sync.apply(seq, func() {
		for i := range s.items {
			if s.items[i].ID == cartItemID {
				s.items[i] = resp.Item
				break
			}
		}
		s.summary = cloneSummary(resp.CartSummary)
	}, nil)
	return s.done("update", OutcomeOK)
}

// RemoveFromCart retire la ligne par identifiant (jamais par index).
func (s *CartStore) RemoveFromCart(ctx context.Context, cartItemID int64) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("remove", OutcomeUnauthenticated)
	}

	seq := s.sync.begin()
	resp, err := s.api.RemoveFromCart(ctx, token, cartItemID)
	if err != nil {
		s.logger.Warn("❌ Erreur suppression ligne panier", zap.Int64("cart_item_id", cartItemID), zap.Error(err))
		return s.done("remove", OutcomeFailed)
	}

	filter := func() {
		kept := s.items[:0:0]
		for _, item := range s.items {
			if item.ID != cartItemID {
				kept = append(kept, item)
			}
		}
		s.items = kept
	}
	// La ligne est supprimée côté serveur : on la retire même si la réponse
	// est périmée, mais on garde alors le résumé plus récent.
	s.sync.apply(seq, func() {
		filter()
		s.summary = cloneSummary(resp.CartSummary)
	}, filter)
	return s.done("remove", OutcomeOK)
}

// ClearCart vide les lignes et remet le résumé à nil.
func (s *CartStore) ClearCart(ctx context.Context) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("clear", OutcomeUnauthenticated)
	}

	seq := s.sync.begin()
	if err := s.api.ClearCart(ctx, token); err != nil {
		s.logger.Warn("❌ Erreur vidage panier", zap.Error(err))
		return s.done("clear", OutcomeFailed)
	}

	s.sync.apply(seq, func() {
		s.items = []models.CartItem{}
		s.summary = nil
	}, nil)
	return s.done("clear", OutcomeOK)
}

// Reset oublie l'état local (déconnexion) sans appel réseau.
func (s *CartStore) Reset() {
	s.sync.reset(func() {
		s.items = []models.CartItem{}
		s.summary = nil
	})
}

// TotalItems lit summary.itemsTotal, 0 sans résumé.
func (s *CartStore) TotalItems() int {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	if s.summary == nil {
		return 0
	}
	return s.summary.ItemsTotal
}

// TotalPrice lit summary.subtotal, 0 sans résumé.
func (s *CartStore) TotalPrice() float64 {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	if s.summary == nil {
		return 0
	}
	return s.summary.Subtotal.Float()
}

func (s *CartStore) Items() []models.CartItem {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	return cloneCartItems(s.items)
}

func (s *CartStore) Summary() *models.CartSummary {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	return cloneSummary(s.summary)
}

func (s *CartStore) State() CartState {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()

	st := CartState{
		Items:     cloneCartItems(s.items),
		Summary:   cloneSummary(s.summary),
		IsLoading: s.sync.loading > 0,
		Error:     s.sync.err,
		Phase:     s.sync.phase,
	}
	if s.summary != nil {
		st.TotalItems = s.summary.ItemsTotal
		st.TotalPrice = s.summary.Subtotal.Float()
	}
	return st
}

func (s *CartStore) done(op string, o Outcome) Outcome {
	s.metrics.ObserveOutcome("cart", op, o.String())
	return o
}

func cloneCartItems(in []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(in))
	copy(out, in)
	return out
}

func cloneSummary(in *models.CartSummary) *models.CartSummary {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
