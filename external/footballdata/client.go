package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/ratelimit"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/resilience"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

const (
	defaultBaseURL    = "https://api.football-data.org/v4"
	defaultTimeout    = 20 * time.Second
	maxResponseBytes  = 6 << 20
	maxBodyInError    = 512
	providerDateParam = "2006-01-02"
)

var errProviderTransient = crerr.New("football-data transient failure")

// UpstreamError carries the provider's non-2xx response for callers that
// inspect status codes.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.StatusCode, e.Body)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	Pacer      *ratelimit.Pacer
	Breaker    *resilience.CircuitBreaker
	Logger     *logging.Logger
}

// Client implements usecase.DataProvider against football-data.org. Every
// request first claims a slot from the pacer, so the free-tier request
// budget is respected no matter how many call sites share the client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	pacer      *ratelimit.Pacer
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		pacer:      cfg.Pacer,
		breaker:    cfg.Breaker,
		logger:     logger,
	}
}

func (c *Client) ListCompetitions(ctx context.Context) ([]usecase.ExternalCompetition, error) {
	var envelope competitionsEnvelope
	if err := c.doJSON(ctx, "/competitions", nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalCompetition, 0, len(envelope.Competitions))
	for _, item := range envelope.Competitions {
		out = append(out, mapExternalCompetition(item))
	}
	return out, nil
}

func (c *Client) GetCompetition(ctx context.Context, code string) (usecase.ExternalCompetition, error) {
	if code == "" {
		return usecase.ExternalCompetition{}, fmt.Errorf("%w: competition code is required", usecase.ErrInvalidInput)
	}

	var payload competitionPayload
	if err := c.doJSON(ctx, "/competitions/"+url.PathEscape(code), nil, &payload); err != nil {
		return usecase.ExternalCompetition{}, err
	}
	return mapExternalCompetition(payload), nil
}

func (c *Client) GetStandings(ctx context.Context, competitionID int64) ([]usecase.ExternalStanding, error) {
	var envelope standingsEnvelope
	path := fmt.Sprintf("/competitions/%d/standings", competitionID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalStanding, 0, len(envelope.Standings))
	for _, item := range envelope.Standings {
		out = append(out, mapExternalStanding(item))
	}
	return out, nil
}

func (c *Client) GetCompetitionTeams(ctx context.Context, competitionID int64) ([]usecase.ExternalTeam, error) {
	var envelope teamsEnvelope
	path := fmt.Sprintf("/competitions/%d/teams", competitionID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		out = append(out, mapExternalTeam(item))
	}
	return out, nil
}

func (c *Client) GetMatches(ctx context.Context, dateFrom, dateTo time.Time) ([]usecase.ExternalMatch, error) {
	query := map[string]string{
		"dateFrom": dateFrom.UTC().Format(providerDateParam),
		"dateTo":   dateTo.UTC().Format(providerDateParam),
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, "/matches", query, &envelope); err != nil {
		return nil, err
	}
	return mapExternalMatches(envelope.Matches), nil
}

func (c *Client) GetCompetitionMatches(ctx context.Context, competitionID int64, filter usecase.MatchFilter) ([]usecase.ExternalMatch, error) {
	query := make(map[string]string, 3)
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Matchday > 0 {
		query["matchday"] = strconv.Itoa(filter.Matchday)
	}
	if filter.Stage != "" {
		query["stage"] = filter.Stage
	}

	var envelope matchesEnvelope
	path := fmt.Sprintf("/competitions/%d/matches", competitionID)
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, err
	}
	return mapExternalMatches(envelope.Matches), nil
}

func (c *Client) GetHeadToHead(ctx context.Context, matchID int64, limit int) (usecase.ExternalHeadToHead, error) {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}

	var envelope headToHeadEnvelope
	path := fmt.Sprintf("/matches/%d/head2head", matchID)
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return usecase.ExternalHeadToHead{}, err
	}

	return usecase.ExternalHeadToHead{
		ResultSet: mapExternalResultSet(envelope.ResultSet),
		Matches:   mapExternalMatches(envelope.Matches),
	}, nil
}

// Cooldown parks the shared pacer, delaying whichever call comes next.
func (c *Client) Cooldown(ctx context.Context, d time.Duration) error {
	if c.pacer == nil {
		return nil
	}
	return c.pacer.Cooldown(ctx, d)
}

func mapExternalMatches(items []matchPayload) []usecase.ExternalMatch {
	out := make([]usecase.ExternalMatch, 0, len(items))
	for _, item := range items {
		out = append(out, mapExternalMatch(item))
	}
	return out
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return err
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for key, value := range query {
			values.Set(key, value)
		}
		fullURL += "?" + values.Encode()
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.breaker != nil {
			if err := c.breaker.Allow(); err != nil {
				return nil, crerr.Mark(err, usecase.ErrDependencyUnavailable)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.recordFailure()
			lastErr = crerr.Wrapf(errProviderTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				c.recordFailure()
				lastErr = crerr.Wrapf(errProviderTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				c.recordSuccess()
				return raw, nil
			default:
				upstream := &UpstreamError{StatusCode: resp.StatusCode, Body: abbreviateBody(raw)}
				if !isRetryableStatus(resp.StatusCode) {
					// The upstream answered; a client-side 4xx says nothing
					// about its health.
					c.recordSuccess()
					return nil, upstream
				}
				c.recordFailure()
				lastErr = crerr.Mark(upstream, errProviderTransient)
			}
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

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}

// 429 covers bursts past the upstream quota; the backoff plus the pacer slot
// usually clears it within one retry.
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	return body
}
