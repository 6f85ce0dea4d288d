package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics regroupe les collecteurs Prometheus de la vitrine.
// Un *Metrics nil est accepté partout : rien n'est alors enregistré.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	TokenRefreshes   *prometheus.CounterVec
	StoreOutcomes    *prometheus.CounterVec
	Workspaces       prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
	CatalogFallbacks *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "upstream_requests_total",
				Help:      "Appels à l'API boutique",
			},
			[]string{"method", "route", "status"},
		),
		UpstreamDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Name:      "upstream_request_duration_seconds",
				Help:      "Durée des appels à l'API boutique",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TokenRefreshes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "token_refreshes_total",
				Help:      "Rafraîchissements de jeton d'accès",
			},
			[]string{"result"}, // ok / failed / skipped
		),
		StoreOutcomes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "store_operations_total",
				Help:      "Résultats des opérations panier / favoris",
			},
			[]string{"store", "operation", "outcome"},
		),
		Workspaces: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Name:      "active_workspaces",
				Help:      "Espaces visiteurs en mémoire",
			},
		),
		HTTPRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "http_requests_total",
				Help:      "Requêtes reçues par la vitrine",
			},
			[]string{"method", "route", "status"},
		),
		CatalogFallbacks: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "catalog_fallbacks_total",
				Help:      "Lectures catalogue servies par les données de secours",
			},
			[]string{"resource"},
		),
	}
}

func (m *Metrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveOutcome(store, operation, outcome string) {
	if m == nil {
		return
	}
	m.StoreOutcomes.WithLabelValues(store, operation, outcome).Inc()
}

func (m *Metrics) ObserveFallback(resource string) {
	if m == nil {
		return
	}
	m.CatalogFallbacks.WithLabelValues(resource).Inc()
}

func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.Workspaces.Set(float64(n))
}
