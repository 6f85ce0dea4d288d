package auth

import (
	"context"
	"time"

	"honnylove_storefront/internal/metrics"
	"honnylove_storefront/internal/utils"

	"go.uber.org/zap"
)

// Refresher échange un refresh token contre un jeton d'accès.
// *services.Client l'implémente.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

type RefreshPolicy string

const (
	// RefreshAlways : un rafraîchissement avant chaque appel authentifié.
	RefreshAlways RefreshPolicy = "always"
	// RefreshOnExpiry : le jeton courant est réutilisé tant que son exp est loin.
	RefreshOnExpiry RefreshPolicy = "expiry"
)

// TokenProvider résout un jeton d'accès utilisable avant chaque appel authentifié.
// Pas de retry, pas de déduplication entre appels concurrents.
type TokenProvider struct {
	session   *Session
	refresher Refresher
	policy    RefreshPolicy
	skew      time.Duration
	now       func() time.Time
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

type ProviderOption func(*TokenProvider)

func WithPolicy(policy RefreshPolicy, skew time.Duration) ProviderOption {
	return func(p *TokenProvider) {
		p.policy = policy
		p.skew = skew
	}
}

func WithProviderLogger(l *zap.Logger) ProviderOption {
	return func(p *TokenProvider) {
		p.logger = l
	}
}

func WithProviderMetrics(m *metrics.Metrics) ProviderOption {
	return func(p *TokenProvider) {
		p.metrics = m
	}
}

// WithClock remplace l'horloge (tests de la politique d'expiration).
func WithClock(now func() time.Time) ProviderOption {
	return func(p *TokenProvider) {
		p.now = now
	}
}

func NewTokenProvider(session *Session, refresher Refresher, opts ...ProviderOption) *TokenProvider {
	p := &TokenProvider{
		session:   session,
		refresher: refresher,
		policy:    RefreshAlways,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *TokenProvider) Session() *Session {
	return p.session
}

// ResolveToken renvoie ("", false) sans appel réseau s'il n'y a pas de paire
// access/refresh. Sinon un seul appel /auth/refresh : en cas de succès le jeton
// d'accès de la session est remplacé et renvoyé ; en cas d'échec la session
// entière est effacée.
func (p *TokenProvider) ResolveToken(ctx context.Context) (string, bool) {
	snap := p.session.Snapshot()
	if snap.AccessToken == "" || snap.RefreshToken == "" {
		return "", false
	}

	if p.policy == RefreshOnExpiry && !utils.ExpiresWithin(snap.AccessToken, p.skew, p.now()) {
		p.metrics.ObserveRefresh("skipped")
		return snap.AccessToken, true
	}

	token, err := p.refresher.RefreshToken(ctx, snap.RefreshToken)
	if err != nil {
		p.metrics.ObserveRefresh("failed")
		p.logger.Warn("⚠️ Rafraîchissement du jeton refusé, déconnexion", zap.Error(err))
		p.session.LogoutIf(snap.RefreshToken)
		return "", false
	}

	p.metrics.ObserveRefresh("ok")
	p.session.ReplaceAccessToken(snap.RefreshToken, token)
	return token, true
}
