package vision

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/extraction"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/resilience"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

const (
	defaultTimeout     = 25 * time.Second
	defaultExtractPath = "/v1/scoreboard:extract"
	maxResponseSize    = 2 << 20
)

var errVisionTransient = crerr.New("vision transient failure")

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	ExtractPath    string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client sends match screenshots to the vision service and parses the
// candidate rows it returns. Rows beyond the scoreboard cap are dropped and
// the caller re-validates everything.
type Client struct {
	httpClient     *fasthttp.Client
	extractURL     string
	apiKey         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	extractPath := strings.TrimSpace(cfg.ExtractPath)
	if extractPath == "" {
		extractPath = defaultExtractPath
	}
	if !strings.HasPrefix(extractPath, "/") {
		extractPath = "/" + extractPath
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseSize,
		},
		extractURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + extractPath,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ExtractScoreboard(ctx context.Context, image []byte, contentType string) ([]extraction.Row, error) {
	if len(image) == 0 {
		return nil, crerr.New("image payload is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "vision circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: vision service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := c.execute(ctx, image, contentType)
	c.recordCircuitResult(err)
	if err != nil {
		return nil, err
	}

	var decoded extractResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode vision payload: %w", err)
	}

	rows := make([]extraction.Row, 0, len(decoded.Rows))
	for _, item := range decoded.Rows {
		name := strings.TrimSpace(item.TeamName)
		if name == "" {
			continue
		}
		rows = append(rows, extraction.Row{
			TeamName: name,
			Kills:    item.Kills,
			Points:   item.Points,
		})
		if len(rows) == extraction.MaxRows {
			break
		}
	}
	return rows, nil
}

func (c *Client) execute(ctx context.Context, image []byte, contentType string) ([]byte, error) {
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doOnce(image, contentType)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errVisionTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "vision request failed", "url", c.extractURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(image []byte, contentType string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.extractURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.SetBody(image)

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errVisionTransient, err)
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		raw := append([]byte(nil), resp.Body()...)
		return raw, nil
	}

	if isRetryableStatus(status) {
		return nil, fmt.Errorf("%w: vision status=%d body=%s", errVisionTransient, status, abbreviateBody(resp.Body()))
	}
	return nil, fmt.Errorf("vision status=%d body=%s", status, abbreviateBody(resp.Body()))
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errVisionTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	limit := len(raw)
	if limit > 512 {
		limit = 512
	}
	_, _ = buf.Write(raw[:limit])
	if len(raw) > limit {
		_, _ = buf.WriteString("...(truncated)")
	}
	return strings.TrimSpace(buf.String())
}

type extractResponse struct {
	Rows []extractRow `json:"rows"`
}

type extractRow struct {
	TeamName string `json:"team_name"`
	Kills    int    `json:"kills"`
	Points   *int   `json:"points,omitempty"`
}
