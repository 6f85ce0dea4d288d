package store

import (
	"context"
	"errors"

	"honnylove_storefront/internal/metrics"
	"honnylove_storefront/internal/models"
	"honnylove_storefront/internal/services"

	"go.uber.org/zap"
)

// WishlistAPI est la partie favoris de l'API boutique.
type WishlistAPI interface {
	GetWishlist(ctx context.Context, token string) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, token string, productID int64) (*models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, token string, productID int64) error
	ClearWishlist(ctx context.Context, token string) error
}

const wishlistFetchError = "Не удалось загрузить избранное"

type WishlistState struct {
	Items     []models.WishlistItem `json:"items"`
	IsLoading bool                  `json:"isLoading"`
	Error     string                `json:"error,omitempty"`
	Phase     Phase                 `json:"phase"`
	Count     int                   `json:"count"`
}

// WishlistStore reflète les favoris serveur. Pas de résumé : un ajout
// réussi insère directement la ligne renvoyée, sans rechargement.
type WishlistStore struct {
	sync    syncState
	api     WishlistAPI
	tokens  TokenResolver
	logger  *zap.Logger
	metrics *metrics.Metrics

	items []models.WishlistItem
	// wipedAt : numéro du dernier vidage (clear ou logout) appliqué.
	wipedAt uint64
}

func NewWishlistStore(visitorID string, api WishlistAPI, tokens TokenResolver, hub *Hub, logger *zap.Logger, m *metrics.Metrics) *WishlistStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WishlistStore{
		sync:    newSyncState(visitorID, EventWishlist, hub),
		api:     api,
		tokens:  tokens,
		logger:  logger.With(zap.String("store", "wishlist"), zap.String("visitor_id", visitorID)),
		metrics: m,
		items:   []models.WishlistItem{},
	}
}

func (s *WishlistStore) FetchWishlist(ctx context.Context) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("fetch", OutcomeUnauthenticated)
	}
	return s.done("fetch", s.fetch(ctx, token))
}

func (s *WishlistStore) fetch(ctx context.Context, token string) Outcome {
	seq := s.sync.beginLoading()
	items, err := s.api.GetWishlist(ctx, token)
	if err != nil {
		s.logger.Warn("❌ Erreur chargement favoris", zap.Error(err))
		s.sync.failLoading(seq, wishlistFetchError)
		return OutcomeFailed
	}

	s.sync.finishLoading(seq, func() {
		s.items = cloneWishlistItems(items)
	})
	return OutcomeOK
}

// AddToWishlist renvoie OutcomeDuplicate si le produit est déjà en favoris
// côté serveur ; aucune ligne n'est alors ajoutée.
func (s *WishlistStore) AddToWishlist(ctx context.Context, productID int64) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("add", OutcomeUnauthenticated)
	}
	return s.done("add", s.add(ctx, token, productID))
}

func (s *WishlistStore) add(ctx context.Context, token string, productID int64) Outcome {
	seq := s.sync.begin()
	item, err := s.api.AddToWishlist(ctx, token, productID)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateWishlist) {
			s.logger.Debug("Produit déjà en favoris", zap.Int64("product_id", productID))
			return OutcomeDuplicate
		}
		s.logger.Warn("❌ Erreur ajout aux favoris", zap.Int64("product_id", productID), zap.Error(err))
		return OutcomeFailed
	}
	if item == nil {
		return OutcomeFailed
	}

	// La ligne existe côté serveur : on l'insère même si une réponse plus
	// récente a déjà été appliquée, sauf si un vidage démarré après l'ajout
	// est passé entre-temps. Une seule ligne par product_id.
	s.sync.apply(seq, func() {
		s.items = append(withoutProduct(s.items, item.ProductID), *item)
	}, func() {
		if s.wipedAt > seq {
			return
		}
		s.items = append(withoutProduct(s.items, item.ProductID), *item)
	})
	return OutcomeOK
}

// RemoveFromWishlist filtre par product_id, pas par identifiant de ligne.
func (s *WishlistStore) RemoveFromWishlist(ctx context.Context, productID int64) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("remove", OutcomeUnauthenticated)
	}
	return s.done("remove", s.remove(ctx, token, productID))
}

func (s *WishlistStore) remove(ctx context.Context, token string, productID int64) Outcome {
	seq := s.sync.begin()
	if err := s.api.RemoveFromWishlist(ctx, token, productID); err != nil {
		s.logger.Warn("❌ Erreur retrait des favoris", zap.Int64("product_id", productID), zap.Error(err))
		return OutcomeFailed
	}

	filter := func() {
		s.items = withoutProduct(s.items, productID)
	}
	s.sync.apply(seq, filter, filter)
	return OutcomeOK
}

func (s *WishlistStore) ClearWishlist(ctx context.Context) Outcome {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("clear", OutcomeUnauthenticated)
	}

	seq := s.sync.begin()
	if err := s.api.ClearWishlist(ctx, token); err != nil {
		s.logger.Warn("❌ Erreur vidage favoris", zap.Error(err))
		return s.done("clear", OutcomeFailed)
	}

	s.sync.apply(seq, func() {
		s.items = []models.WishlistItem{}
		s.wipedAt = seq
	}, nil)
	return s.done("clear", OutcomeOK)
}

// IsFavorite lit le cache local ; il peut être en retard sur le serveur
// jusqu'au prochain FetchWishlist.
func (s *WishlistStore) IsFavorite(productID int64) bool {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ToggleFavorite retire le produit s'il est en favoris localement, l'ajoute sinon.
// Le booléen indique l'appartenance attendue après l'opération. Un seul
// rafraîchissement de jeton, resynchronisation comprise.
func (s *WishlistStore) ToggleFavorite(ctx context.Context, productID int64) (Outcome, bool) {
	token, ok := s.tokens.ResolveToken(ctx)
	if !ok {
		return s.done("toggle", OutcomeUnauthenticated), s.IsFavorite(productID)
	}

	if s.IsFavorite(productID) {
		o := s.remove(ctx, token, productID)
		return s.done("toggle", o), !o.OK()
	}

	o := s.add(ctx, token, productID)
	if o == OutcomeDuplicate {
		// Le cache local était en retard : le produit est déjà en favoris
		// côté serveur. On recharge pour que le prochain toggle le retire.
		if s.fetch(ctx, token) != OutcomeOK || !s.IsFavorite(productID) {
			s.markFavorite(productID)
		}
	}
	return s.done("toggle", o), o.OK() || o == OutcomeDuplicate
}

// markFavorite insère une ligne minimale quand le serveur a confirmé
// l'appartenance sans renvoyer la ligne.
func (s *WishlistStore) markFavorite(productID int64) {
	seq := s.sync.begin()
	s.sync.apply(seq, func() {
		s.items = append(withoutProduct(s.items, productID), models.WishlistItem{ProductID: productID})
	}, nil)
}

func (s *WishlistStore) Reset() {
	s.sync.reset(func() {
		s.items = []models.WishlistItem{}
		s.wipedAt = s.sync.seq
	})
}

func (s *WishlistStore) Items() []models.WishlistItem {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	return cloneWishlistItems(s.items)
}

func (s *WishlistStore) State() WishlistState {
	s.sync.mu.RLock()
	defer s.sync.mu.RUnlock()
	return WishlistState{
		Items:     cloneWishlistItems(s.items),
		IsLoading: s.sync.loading > 0,
		Error:     s.sync.err,
		Phase:     s.sync.phase,
		Count:     len(s.items),
	}
}

func (s *WishlistStore) done(op string, o Outcome) Outcome {
	s.metrics.ObserveOutcome("wishlist", op, o.String())
	return o
}

func withoutProduct(in []models.WishlistItem, productID int64) []models.WishlistItem {
	out := make([]models.WishlistItem, 0, len(in))
	for _, item := range in {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

func cloneWishlistItems(in []models.WishlistItem) []models.WishlistItem {
	out := make([]models.WishlistItem, len(in))
	copy(out, in)
	return out
}
