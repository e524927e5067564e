package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Prometheus metrics for API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firecrawl_requests_total",
		Help: "Total Firecrawl API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "firecrawl_request_duration_seconds",
		Help:    "Firecrawl API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firecrawl_errors_total",
		Help: "Total Firecrawl API errors by class",
	}, []string{"class"})
)

var tracer = otel.Tracer("github.com/firecrawl/firecrawl-go/pkg/client")

// Request is a single API call. It is not modified by Do.
type Request struct {
	Method string

	// Path is relative to the configured API URL and may contain {name}
	// placeholders filled from PathParams. An absolute URL is used as-is.
	Path       string
	PathParams map[string]string
	Query      map[string]string

	// Header holds headers sent in addition to auth and content type.
	Header map[string]string

	// Body is encoded as JSON unless it is already a []byte.
	Body any

	// Endpoint labels metrics and spans. Defaults to Path.
	Endpoint string
}

func (r Request) endpoint() string {
	if r.Endpoint != "" {
		return r.Endpoint
	}
	return r.Path
}

// Response is a successful (2xx) API answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// transport executes requests against the API with retries.
// It is safe for concurrent use; the underlying connection pool is shared.
type transport struct {
	http   *resty.Client
	retry  RetryPolicy
	logger zerolog.Logger
}

func newTransport(cfg Config, logger zerolog.Logger) *transport {
	// A caller's client is copied so the timeout is never set on it; the
	// copy shares its Transport and therefore its connection pool.
	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		hc = &copied
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
	}
	rc := resty.NewWithClient(hc)

	rc.SetBaseURL(cfg.APIURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetLogger(restyLogger{logger: logger})

	return &transport{
		http:   rc,
		retry:  RetryPolicy{MaxRetries: cfg.MaxRetries, BackoffFactor: cfg.BackoffFactor},
		logger: logger,
	}
}

// execute performs req, retrying 408/409/502/5xx responses and I/O failures.
// When retries run out the last error is returned unchanged.
func (t *transport) execute(ctx context.Context, req Request) (*Response, error) {
	endpoint := req.endpoint()

	ctx, span := tracer.Start(ctx, req.Method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.template", endpoint),
	)

	body, err := encodeBody(req.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	attempt := 0
	operation := func() (*Response, error) {
		attempt++
		resp, err := t.attempt(ctx, req, endpoint, body, attempt)
		if err != nil && !isRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}

	notify := func(err error, wait time.Duration) {
		class := string(errorClassOf(err))
		retriesTotal.WithLabelValues(class).Inc()
		retryBackoffSeconds.WithLabelValues(class).Observe(wait.Seconds())
		t.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")
	}

	resp, err := backoff.RetryNotifyWithData[*Response](operation, t.retry.BackOff(ctx), notify)
	span.SetAttributes(attribute.Int("firecrawl.attempts", attempt))
	if err != nil {
		if isRetryable(err) && ctx.Err() == nil {
			retryExhaustedTotal.WithLabelValues(string(errorClassOf(err))).Inc()
			t.logger.Error().
				Err(err).
				Str("endpoint", endpoint).
				Int("attempts", attempt).
				Msg("Retry attempts exhausted")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return resp, nil
}

// attempt performs exactly one HTTP exchange.
func (t *transport) attempt(ctx context.Context, req Request, endpoint string, body []byte, n int) (*Response, error) {
	r := t.http.R().
		SetContext(ctx).
		SetHeaders(req.Header).
		SetPathParams(req.PathParams).
		SetQueryParams(req.Query)
	if body != nil {
		r.SetBody(body)
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("endpoint", endpoint).
		Int("attempt", n).
		Msg("Executing request")

	start := time.Now()
	res, err := r.Execute(req.Method, req.Path)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		t.logger.Warn().Err(err).Str("endpoint", endpoint).Int("attempt", n).Msg("HTTP request failed")
		return nil, &NetworkError{Method: req.Method, URL: requestURL(r, req), Attempts: n, Err: err}
	}

	status := res.StatusCode()
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	if status >= 200 && status < 300 {
		return &Response{StatusCode: status, Header: res.Header(), Body: res.Body()}, nil
	}

	apiErr := newAPIError(status, res.Body(), res.Header())
	errorsTotal.WithLabelValues(string(apiErr.ErrorClass)).Inc()
	t.logger.Warn().
		Str("endpoint", endpoint).
		Int("status", status).
		Str("error_class", string(apiErr.ErrorClass)).
		Str("message", apiErr.Message).
		Msg("API request error")

	return nil, apiErr
}

// requestURL is the resolved URL of r, or the unexpanded path when resty
// failed before building it.
func requestURL(r *resty.Request, req Request) string {
	if r.RawRequest != nil && r.RawRequest.URL != nil {
		return r.RawRequest.URL.String()
	}
	if strings.Contains(r.URL, "://") {
		return r.URL
	}
	return req.Path
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, invalidf("encode request body: %v", err)
	}
	return data, nil
}

// decodeJSON decodes the whole response body into T.
func decodeJSON[T any](resp *Response) (*T, error) {
	return decodeBytes[T](resp.Body)
}

// decodeData decodes the "data" member of the response, or the whole body
// when the endpoint does not wrap its payload.
func decodeData[T any](resp *Response) (*T, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err == nil {
		if trimmed := bytes.TrimSpace(envelope.Data); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			return decodeBytes[T](trimmed)
		}
	}
	return decodeBytes[T](resp.Body)
}

func decodeBytes[T any](data []byte) (*T, error) {
	var out T
	if len(bytes.TrimSpace(data)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// restyLogger routes resty's internal messages to zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
