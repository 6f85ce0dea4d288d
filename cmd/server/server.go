package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"honnylove_storefront/internal/auth"
	"honnylove_storefront/internal/cache"
	"honnylove_storefront/internal/catalog"
	"honnylove_storefront/internal/config"
	"honnylove_storefront/internal/database"
	"honnylove_storefront/internal/handlers"
	"honnylove_storefront/internal/logger"
	"honnylove_storefront/internal/metrics"
	"honnylove_storefront/internal/middleware"
	"honnylove_storefront/internal/routes"
	"honnylove_storefront/internal/services"
	"honnylove_storefront/internal/store"
	"honnylove_storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepEvery      = 5 * time.Minute
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Lance le serveur HTTP de la vitrine",
	RunE:  runServer,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Recopie le catalogue de l'API dans Elasticsearch",
	RunE:  runReindex,
}

// app regroupe les composants partagés par les deux commandes.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	conns    *database.Connections
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	client   *services.Client
	cache    *cache.Cache
	catalog  *catalog.Service
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialisation du logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	conns, err := database.Connect(ctx, cfg, zl)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   zl,
		conns:    conns,
		registry: reg,
		metrics:  m,
		client: services.NewClient(cfg.API.BaseURL,
			services.WithTimeout(cfg.API.Timeout),
			services.WithLogger(zl),
			services.WithMetrics(m),
		),
	}

	catalogOpts := []catalog.Option{
		catalog.WithProductTTL(cfg.Catalog.CacheTTL),
		catalog.WithLogger(zl),
		catalog.WithMetrics(m),
	}
	if conns.Redis != nil {
		a.cache = cache.New(conns.Redis, zl)
		catalogOpts = append(catalogOpts, catalog.WithCache(a.cache))
	}
	if conns.Elastic != nil {
		catalogOpts = append(catalogOpts, catalog.WithSearchIndex(catalog.NewElasticIndex(conns.Elastic, cfg.Elastic.Index, zl)))
	}

	fb, err := catalog.LoadFallback(cfg.Catalog.FallbackPath)
	if err != nil {
		conns.Close()
		return nil, err
	}
	catalogOpts = append(catalogOpts, catalog.WithFallback(fb))
	a.catalog = catalog.NewService(a.client, catalogOpts...)

	return a, nil
}

func (a *app) close() {
	a.conns.Close()
	a.logger.Sync()
}

// initTracing installe un exporteur stdout si OTEL_TRACES_STDOUT est actif.
func initTracing(enabled bool) (func(context.Context) error, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("exporteur de traces: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, zl := a.cfg, a.logger

	shutdownTracing, err := initTracing(cfg.Telemetry.TracesStdout)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	regOpts := []store.RegistryOption{
		store.WithRegistryLogger(zl),
		store.WithRegistryMetrics(a.metrics),
		store.WithProviderOptions(auth.WithPolicy(auth.RefreshPolicy(cfg.API.RefreshPolicy), cfg.API.ExpirySkew)),
	}
	checks := map[string]handlers.Pinger{}
	var counter middleware.Counter
	if a.conns.Redis != nil {
		regOpts = append(regOpts, store.WithSessionRepository(cache.NewSessionStore(a.conns.Redis, cache.SessionTTL)))
		checks["redis"] = handlers.PingFunc(a.conns.PingRedis)
		counter = a.cache
	}
	if a.conns.Elastic != nil {
		checks["elasticsearch"] = handlers.PingFunc(a.conns.PingElastic)
	}
	registry := store.NewRegistry(a.client, regOpts...)
	go registry.RunSweeper(ctx, sweepEvery, cfg.Session.IdleTTL)

	mailer := utils.NewMailer(utils.MailSettings{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		From:      cfg.Mail.From,
		ShopEmail: cfg.Mail.ShopEmail,
	}, zl)
	if !mailer.Enabled() {
		zl.Warn("⚠️ SMTP_HOST non configuré, pas d'e-mail de confirmation")
	}

	h := handlers.New(handlers.Deps{
		Registry:       registry,
		Catalog:        a.catalog,
		Auth:           a.client,
		Mailer:         mailer,
		Checks:         checks,
		AllowedOrigins: cfg.Session.CORSOrigins,
		Logger:         zl,
	})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, h, routes.Options{
		Cookies:       middleware.NewCookieStore(cfg.Session.Secret, int(cfg.Session.MaxAge.Seconds()), cfg.Session.CookieSecure),
		CookieName:    cfg.Session.CookieName,
		Registry:      registry,
		Counter:       counter,
		CartPerMinute: cfg.Limits.CartPerMinute,
		APIPerMinute:  cfg.Limits.APIPerMinute,
		CORSOrigins:   cfg.Session.CORSOrigins,
		Metrics:       a.metrics,
		Gatherer:      a.registry,
		Logger:        zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("🚀 Vitrine HonnyLove lancée", zap.String("port", cfg.Port), zap.String("api", a.client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serveur HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("🛑 Arrêt du serveur…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("arrêt du serveur: %w", err)
	}
	zl.Info("✅ Serveur arrêté")
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if a.conns.Elastic == nil {
		return errors.New("ELASTIC_URL non configuré")
	}

	start := time.Now()
	n, err := a.catalog.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("réindexation: %w", err)
	}
	log.Printf("✅ %d produits indexés en %s", n, time.Since(start).Round(time.Millisecond))
	return nil
}
