package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"honnylove_storefront/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client parle à l'API REST de la boutique (base /api).
// Aucun retry : chaque appel est tenté une seule fois.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Client)

// WithHTTPClient remplace le client HTTP (tests, transport personnalisé).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout fixe le délai maximal d'un appel. 0 = délais du transport uniquement.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zap.NewNop(),
		tracer:  otel.Tracer("honnylove_storefront/services"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// request décrit un appel. Route est le gabarit du chemin ("/cart/:id"),
// utilisé pour les métriques et les spans.
type request struct {
	Method string
	Path   string
	Route  string
	Token  string
	Body   any
}

func (c *Client) do(ctx context.Context, req request, result any) error {
	raw, err := c.doRaw(ctx, req)
	if err != nil {
		return err
	}
	if result == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("réponse illisible pour %s %s: %w", req.Method, req.Route, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, req request) ([]byte, error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	ctx, span := c.tracer.Start(ctx, req.Method+" "+route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encodage de la requête: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("création de la requête: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.route", route),
		attribute.String("request.id", requestID),
	)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(req.Method, route, "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, err
	}
	defer httpResp.Body.Close()

	c.observe(req.Method, route, strconv.Itoa(httpResp.StatusCode), elapsed)
	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("lecture de la réponse: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := newAPIError(httpResp.StatusCode, respBody)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Debug("❌ Réponse en erreur de l'API",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Int("status", httpResp.StatusCode),
			zap.String("message", apiErr.Message),
			zap.String("request_id", requestID),
		)
		return nil, apiErr
	}

	return respBody, nil
}

func (c *Client) observe(method, route, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamRequests.WithLabelValues(method, route, status).Inc()
	c.metrics.UpstreamDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
