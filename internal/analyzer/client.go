package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/imagedata"
	"skincare-advisor/internal/metrics"
)

// Client define la frontera con el servicio remoto de analisis y recomendacion.
type Client interface {
	Analyze(ctx context.Context, dataURL string) (domain.AnalysisResult, error)
	Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error)
}

var (
	ErrUnavailable       = errors.New("analysis service unavailable")
	ErrRejected          = errors.New("analysis service rejected the request")
	ErrMalformedResponse = errors.New("analysis service returned a malformed response")
)

const maxResponseBytes = 4 << 20

// Options ajusta la politica de timeout y reintentos.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	RPS        float64
}

// HTTPClient implementa Client contra los endpoints PUT /upload y PUT /recommend.
type HTTPClient struct {
	baseURL    string
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
	inflight   singleflight.Group
	logger     *zap.Logger
}

// NewHTTPClient construye el cliente. httpClient nil usa uno por defecto.
func NewHTTPClient(baseURL string, opts Options, httpClient *http.Client, logger *zap.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 250 * time.Millisecond
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     httpClient,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Analyze envia la imagen. Envios concurrentes de la misma imagen comparten una sola llamada.
func (c *HTTPClient) Analyze(ctx context.Context, dataURL string) (domain.AnalysisResult, error) {
	key := imagedata.Fingerprint([]byte(dataURL))
	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		// La llamada compartida no depende de la cancelacion de quien llego primero.
		shared := context.WithoutCancel(ctx)
		body, err := c.put(shared, "analyze", "/upload", map[string]string{"file": dataURL})
		if err != nil {
			return domain.AnalysisResult{}, err
		}
		return parseAnalysis(body)
	})
	select {
	case <-ctx.Done():
		return domain.AnalysisResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.AnalysisResult{}, res.Err
		}
		return res.Val.(domain.AnalysisResult), nil
	}
}

func (c *HTTPClient) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.Recommendations, error) {
	body, err := c.put(ctx, "recommend", "/recommend", req)
	if err != nil {
		return domain.Recommendations{}, err
	}
	return parseRecommendations(body)
}

func (c *HTTPClient) put(ctx context.Context, op, path string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordAnalyzerRetry(op)
			wait := c.backoff << (attempt - 1)
			c.logger.Warn("retrying analysis service call",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				metrics.RecordAnalyzerCall(op, "canceled", time.Since(start))
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RecordAnalyzerCall(op, "canceled", time.Since(start))
			return nil, err
		}

		body, retryable, err := c.attempt(ctx, path, bodyBytes)
		if err == nil {
			metrics.RecordAnalyzerCall(op, "ok", time.Since(start))
			return body, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordAnalyzerCall(op, "canceled", time.Since(start))
		return nil, err
	}
	metrics.RecordAnalyzerCall(op, "error", time.Since(start))
	return nil, lastErr
}

func (c *HTTPClient) attempt(ctx context.Context, path string, body []byte) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode < 300:
		return respBody, false, nil
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, true, fmt.Errorf("%w: status=%d", ErrUnavailable, resp.StatusCode)
	default:
		msg := gjson.GetBytes(respBody, "error").String()
		if msg == "" {
			msg = gjson.GetBytes(respBody, "message").String()
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, false, fmt.Errorf("%w: status=%d: %s", ErrRejected, resp.StatusCode, msg)
	}
}

func parseAnalysis(body []byte) (domain.AnalysisResult, error) {
	if !gjson.ValidBytes(body) {
		return domain.AnalysisResult{}, ErrMalformedResponse
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return domain.AnalysisResult{}, ErrMalformedResponse
	}
	if msg := res.Get("error"); msg.Exists() && msg.String() != "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %s", ErrRejected, msg.String())
	}

	out := domain.AnalysisResult{
		Type: strings.TrimSpace(res.Get("type").String()),
		Tone: domain.Tone(res.Get("tone").Int()),
	}
	if acne := strings.TrimSpace(res.Get("acne").String()); acne != "" {
		sev, _ := domain.ParseAcneSeverity(acne)
		out.Acne = sev
	}
	if features := res.Get("features"); features.IsObject() {
		out.Features = make(map[string]int)
		features.ForEach(func(k, v gjson.Result) bool {
			if v.Int() != 0 || v.Bool() {
				out.Features[k.String()] = 1
			} else {
				out.Features[k.String()] = 0
			}
			return true
		})
	}
	return out, nil
}

func parseRecommendations(body []byte) (domain.Recommendations, error) {
	if !gjson.ValidBytes(body) {
		return domain.Recommendations{}, ErrMalformedResponse
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return domain.Recommendations{}, ErrMalformedResponse
	}

	out := domain.Recommendations{General: make(map[string][]domain.CatalogProduct)}
	res.Get("general").ForEach(func(category, items gjson.Result) bool {
		cat := category.String()
		items.ForEach(func(_, item gjson.Result) bool {
			out.General[cat] = append(out.General[cat], parseProduct(item, cat))
			return true
		})
		return true
	})
	res.Get("makeup").ForEach(func(_, item gjson.Result) bool {
		out.Makeup = append(out.Makeup, parseProduct(item, item.Get("category").String()))
		return true
	})
	return out, nil
}

// parseProduct tolera nombres de campo alternativos (img, image, concern).
func parseProduct(item gjson.Result, category string) domain.CatalogProduct {
	p := domain.CatalogProduct{
		ID:       item.Get("id").String(),
		Name:     item.Get("name").String(),
		Brand:    item.Get("brand").String(),
		Category: category,
		Price:    item.Get("price").Float(),
		Rating:   item.Get("rating").Float(),
		ImageURL: firstString(item, "image_url", "img", "image"),
	}
	if p.Category == "" {
		p.Category = firstString(item, "label", "type")
	}
	for _, field := range []string{"tags", "concern"} {
		item.Get(field).ForEach(func(_, tag gjson.Result) bool {
			p.Tags = append(p.Tags, tag.String())
			return true
		})
	}
	item.Get("skin_types").ForEach(func(_, st gjson.Result) bool {
		p.SkinTypes = append(p.SkinTypes, st.String())
		return true
	})
	return p
}

func firstString(item gjson.Result, fields ...string) string {
	for _, f := range fields {
		if v := item.Get(f); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
