package identity

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

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/user"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/cache"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/resilience"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

const defaultTokenCacheTTL = 30 * time.Second

// Client verifies bearer tokens against the community account service and
// grants the admin role from a configured allow-list of user ids. Verified
// tokens are cached briefly so a burst of requests does not hammer the
// account service; a breaker shields it when it is down.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminUserIDs  map[string]struct{}
	breaker       *resilience.CircuitBreaker
	tokenCache    *cache.Store
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, introspectPath string, adminUserIDs []string, cbConfig resilience.CircuitBreakerConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	admins := make(map[string]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		admins[id] = struct{}{}
	}

	var breaker *resilience.CircuitBreaker
	if cbConfig.Enabled {
		cbConfig = resilience.NormalizeCircuitBreakerConfig(cbConfig)
		breaker = resilience.NewCircuitBreaker(cbConfig.FailureThreshold, cbConfig.OpenTimeout, cbConfig.HalfOpenMaxReq)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		adminUserIDs:  admins,
		breaker:       breaker,
		tokenCache:    cache.NewStore(defaultTokenCacheTTL),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	if cached, ok := c.tokenCache.Get(ctx, token); ok {
		if principal, ok := cached.(user.Principal); ok {
			return principal, nil
		}
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: account service breaker open", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	if err != nil {
		if c.breaker != nil && !isAuthError(err) {
			c.breaker.RecordFailure()
		}
		return user.Principal{}, err
	}
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}

	c.tokenCache.Set(ctx, token, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	payload := introspectRequest{Token: token}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request token introspection: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read introspect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "token introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("%w: token introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	_, admin := c.adminUserIDs[decoded.UserID]
	return user.Principal{
		UserID: decoded.UserID,
		Name:   decoded.Name,
		Admin:  admin,
	}, nil
}

func isAuthError(err error) bool {
	return errors.Is(err, usecase.ErrUnauthorized)
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
