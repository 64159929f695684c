package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imbalance-report/internal/metrics"
)

const oneRecord = `{"data":[{"settlementDate":"%[1]s","settlementPeriod":1,"startTime":"%[1]sT00:00:00Z","systemSellPrice":50,"systemBuyPrice":50,"netImbalanceVolume":-120.5}]}`

func fakeBMRS(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		const prefix = "/balancing/settlement/system-prices/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		date := strings.TrimPrefix(r.URL.Path, prefix)
		switch date {
		case "2000-01-01":
			http.NotFound(w, r)
		case "2000-01-02":
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		case "2000-01-03":
			w.WriteHeader(http.StatusInternalServerError)
		case "2000-01-04":
			_, _ = w.Write([]byte("{not json"))
		default:
			if r.Header.Get("Accept") != "application/json" {
				w.WriteHeader(http.StatusNotAcceptable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, oneRecord, date)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}

func TestFetchSystemPrices(t *testing.T) {
	var hits int32
	srv := fakeBMRS(t, &hits)
	c := NewBMRSClient(srv.URL+"/", 5*time.Second)

	resp, err := c.FetchSystemPrices(context.Background(), "2023-10-29")
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Contains(t, string(resp.Data[0]), `"settlementDate":"2023-10-29"`)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestNewBMRSClientDefaults(t *testing.T) {
	c := NewBMRSClient("", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, 30*time.Second, c.Client.Timeout)
}

func TestFetchSystemPricesInvalidDate(t *testing.T) {
	var hits int32
	srv := fakeBMRS(t, &hits)
	c := NewBMRSClient(srv.URL, time.Second)

	_, err := c.FetchSystemPrices(context.Background(), "29/10/2023")
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "no request should be sent for a bad date")
}

func TestFetchSystemPricesErrors(t *testing.T) {
	var hits int32
	srv := fakeBMRS(t, &hits)
	m := metrics.New()
	c := NewBMRSClient(srv.URL, time.Second)
	c.Metrics = m

	tests := []struct {
		date       string
		wantStatus int
		wantCode   string
	}{
		{"2000-01-01", http.StatusNotFound, "NOT_FOUND"},
		{"2000-01-02", http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"2000-01-03", http.StatusInternalServerError, "API_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			_, err := c.FetchSystemPrices(context.Background(), tt.date)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "30", apiErr.RetryAfter)
			}
		})
	}

	_, err := c.FetchSystemPrices(context.Background(), "2000-01-04")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")

	assert.Contains(t, scrape(t, m), "imbalance_upstream_errors_total 4")
}

func TestFetchSystemPricesUsesCache(t *testing.T) {
	var hits int32
	srv := fakeBMRS(t, &hits)
	m := metrics.New()
	c := NewBMRSClient(srv.URL, time.Second)
	c.Cache = NewResponseCache(time.Minute)
	c.Metrics = m

	for i := 0; i < 3; i++ {
		resp, err := c.FetchSystemPrices(context.Background(), "2023-10-29")
		require.NoError(t, err)
		require.Len(t, resp.Data, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, c.Cache.Len())

	out := scrape(t, m)
	assert.Contains(t, out, "imbalance_cache_hits_total 2")
	assert.Contains(t, out, "imbalance_cache_misses_total 1")
}

func TestFetchSystemPricesHonoursContext(t *testing.T) {
	var hits int32
	srv := fakeBMRS(t, &hits)
	c := NewBMRSClient(srv.URL, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchSystemPrices(ctx, "2023-10-29")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchRange(t *testing.T) {
	var hits int32
	srv := fakeBMRS(t, &hits)
	c := NewBMRSClient(srv.URL, time.Second)

	resp, err := c.FetchRange(context.Background(), "2023-10-28", "2023-10-30")
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.Contains(t, string(resp.Data[0]), "2023-10-28")
	assert.Contains(t, string(resp.Data[2]), "2023-10-30")

	_, err = c.FetchRange(context.Background(), "1999-12-31", "2000-01-01")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "2000-01-01")
}

func TestDateRange(t *testing.T) {
	dates, err := DateRange("2023-10-30", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-10-30"}, dates)

	dates, err = DateRange("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, dates)

	dates, err = DateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Len(t, dates, MaxRangeDays)

	_, err = DateRange("2024-01-01", "2024-02-01")
	assert.Error(t, err)

	_, err = DateRange("2024-01-02", "2024-01-01")
	assert.Error(t, err)

	_, err = DateRange("bad", "")
	assert.Error(t, err)
	_, err = DateRange("2024-01-01", "bad")
	assert.Error(t, err)
}
