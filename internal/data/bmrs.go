package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"imbalance-report/internal/metrics"
	"imbalance-report/internal/model"
)

const (
	// DefaultBaseURL is the public Elexon BMRS API.
	DefaultBaseURL = "https://data.elexon.co.uk/bmrs/api/v1"

	// MaxRangeDays bounds a single FetchRange call.
	MaxRangeDays = 31

	dateLayout = "2006-01-02"
)

// BMRSClient fetches system buy/sell prices and net imbalance volumes from BMRS.
type BMRSClient struct {
	BaseURL string
	Client  *http.Client

	// Optional collaborators; nil disables each.
	Cache   *ResponseCache
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewBMRSClient creates a new BMRS API client.
// If baseURL is empty, defaults to DefaultBaseURL. A non-positive timeout means 30s.
func NewBMRSClient(baseURL string, timeout time.Duration) *BMRSClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BMRSClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError represents a non-200 answer from the market data source.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

func (c *BMRSClient) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// FetchSystemPrices fetches all settlement periods of one settlement date (YYYY-MM-DD).
func (c *BMRSClient) FetchSystemPrices(ctx context.Context, settlementDate string) (*model.SystemPricesResponse, error) {
	if _, err := time.Parse(dateLayout, settlementDate); err != nil {
		return nil, fmt.Errorf("invalid settlement date %q (expected YYYY-MM-DD): %w", settlementDate, err)
	}

	key := CacheKey(c.BaseURL, settlementDate)
	if cached, found := c.Cache.Get(key); found {
		c.Metrics.CacheHit()
		c.log().Debug("bmrs cache hit", slog.String("date", settlementDate), slog.Int("records", len(cached.Data)))
		return cached, nil
	}
	if c.Cache != nil {
		c.Metrics.CacheMiss()
	}

	// Build URL: /balancing/settlement/system-prices/{settlementDate}
	u, err := url.Parse(c.BaseURL + "/balancing/settlement/system-prices/" + settlementDate)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log().Info("bmrs request", slog.String("path", u.Path), slog.String("date", settlementDate))

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.Metrics.UpstreamRequest(duration, false)
		c.log().Error("bmrs request failed", slog.Any("err", err), slog.Duration("duration", duration))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log().Info("bmrs response",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.String("date", settlementDate))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.Metrics.UpstreamRequest(duration, false)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "NOT_FOUND",
			Message:    fmt.Sprintf("no system prices published for %s", settlementDate),
		}
	case http.StatusTooManyRequests:
		c.Metrics.UpstreamRequest(duration, false)
		retryAfter := resp.Header.Get("Retry-After")
		c.log().Warn("bmrs rate limited", slog.String("retry_after", retryAfter))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		c.Metrics.UpstreamRequest(duration, false)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var result model.SystemPricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.Metrics.UpstreamRequest(duration, false)
		c.log().Error("bmrs decode failed", slog.Any("err", err), slog.String("date", settlementDate))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	c.Metrics.UpstreamRequest(duration, true)
	c.log().Info("bmrs success", slog.Int("records", len(result.Data)), slog.String("date", settlementDate))

	c.Cache.Set(key, &result)
	return &result, nil
}

// FetchRange fetches every settlement date from..to inclusive, in order, and
// concatenates their records. An empty to means from only.
func (c *BMRSClient) FetchRange(ctx context.Context, from, to string) (*model.SystemPricesResponse, error) {
	dates, err := DateRange(from, to)
	if err != nil {
		return nil, err
	}
	out := &model.SystemPricesResponse{}
	for _, d := range dates {
		resp, err := c.FetchSystemPrices(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("settlement date %s: %w", d, err)
		}
		out.Data = append(out.Data, resp.Data...)
	}
	return out, nil
}

// DateRange expands from..to (inclusive, YYYY-MM-DD) into dates.
// An empty to means just from. At most MaxRangeDays dates are allowed.
func DateRange(from, to string) ([]string, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
	}
	end := start
	if to != "" {
		end, err = time.Parse(dateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
		}
	}
	if start.After(end) {
		return nil, fmt.Errorf("from date must not be after to date")
	}

	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(out) == MaxRangeDays {
			return nil, fmt.Errorf("date range exceeds %d days", MaxRangeDays)
		}
		out = append(out, d.Format(dateLayout))
	}
	return out, nil
}
