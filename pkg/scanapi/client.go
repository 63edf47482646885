// Package scanapi provides a Go client for the spread-scan engine's REST
// API. Every response error is normalized to a single human-readable message
// before it reaches the caller, so the dashboard never shows a raw transport
// error.
package scanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"spreadscan/internal/domain"
	"spreadscan/internal/util"
)

// apiPrefix is the engine's common route prefix. The /health probe is the
// one route mounted outside it.
const apiPrefix = "/api/v1"

// Client talks to the scan engine. Scan submissions use a longer timeout
// than ordinary requests because the engine's pipeline can run for minutes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	scanClient *http.Client
	limiter    *util.RateLimiter
}

// NewClient creates a new scan API client. limiter may be nil to disable
// client-side request pacing.
func NewClient(baseURL string, requestTimeout, scanTimeout time.Duration, limiter *util.RateLimiter) *Client {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	if scanTimeout <= 0 {
		scanTimeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		scanClient: &http.Client{Timeout: scanTimeout},
		limiter:    limiter,
	}
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

// RunScan submits a scan with the given filter snapshot and blocks until the
// engine returns a ranked result or an error.
func (c *Client) RunScan(ctx context.Context, filters domain.ScannerFilters) (*domain.ScannerResult, error) {
	var res domain.ScannerResult
	if err := c.post(ctx, c.scanClient, apiPrefix+"/scanner/scan", filters, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DefaultFilters returns the engine's default filter configuration.
func (c *Client) DefaultFilters(ctx context.Context) (*domain.ScannerFilters, error) {
	var f domain.ScannerFilters
	if err := c.get(ctx, apiPrefix+"/scanner/filters/defaults", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Universe returns the default symbol universe used when no symbols are set.
func (c *Client) Universe(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := c.get(ctx, apiPrefix+"/scanner/universe", &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

// Expirations returns the available option expiration dates for a symbol.
func (c *Client) Expirations(ctx context.Context, symbol string) ([]string, error) {
	var dates []string
	if err := c.get(ctx, apiPrefix+"/options/expirations/"+url.PathEscape(symbol), &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

// Chain fetches the options chain for a symbol. If expiration is empty the
// engine picks the nearest available expiry.
func (c *Client) Chain(ctx context.Context, symbol, expiration string) (*domain.OptionsChain, error) {
	path := apiPrefix + "/options/chain/" + url.PathEscape(symbol)
	if expiration != "" {
		path += "?expiration=" + url.QueryEscape(expiration)
	}
	var chain domain.OptionsChain
	if err := c.get(ctx, path, &chain); err != nil {
		return nil, err
	}
	return &chain, nil
}

// GetQuote fetches the real-time underlying quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var q domain.Quote
	if err := c.get(ctx, apiPrefix+"/options/quote/"+url.PathEscape(symbol), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// OHLC fetches historical bars for the candlestick panel.
// period: 1mo, 3mo, 6mo, 1y, 2y.
func (c *Client) OHLC(ctx context.Context, symbol, period string) ([]domain.Bar, error) {
	path := apiPrefix + "/options/ohlc/" + url.PathEscape(symbol) + "?period=" + url.QueryEscape(period)
	var bars []domain.Bar
	if err := c.get(ctx, path, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// Sentiment fetches aggregated news sentiment for a symbol.
func (c *Client) Sentiment(ctx context.Context, symbol string) (*domain.TickerSentiment, error) {
	var s domain.TickerSentiment
	if err := c.get(ctx, apiPrefix+"/sentiment/"+url.PathEscape(symbol), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SentimentBatch scores up to 20 symbols in one call. Symbols the engine
// failed to score are absent from the returned map.
func (c *Client) SentimentBatch(ctx context.Context, symbols []string) (map[string]domain.TickerSentiment, error) {
	out := make(map[string]domain.TickerSentiment)
	if err := c.post(ctx, c.httpClient, apiPrefix+"/sentiment/batch", symbols, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fundamentals fetches scored company fundamentals for a symbol.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*domain.FundamentalData, error) {
	var f domain.FundamentalData
	if err := c.get(ctx, apiPrefix+"/fundamentals/"+url.PathEscape(symbol), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FeatureImportance returns the ML model's feature importances.
func (c *Client) FeatureImportance(ctx context.Context) (map[string]float64, error) {
	out := make(map[string]float64)
	if err := c.get(ctx, apiPrefix+"/ml/feature-importance", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MLStatus returns whether the engine's model is trained or in placeholder
// mode.
func (c *Client) MLStatus(ctx context.Context) (*domain.MLStatus, error) {
	var st domain.MLStatus
	if err := c.get(ctx, apiPrefix+"/ml/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Health probes the engine's liveness endpoint, which lives outside the
// common API prefix.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", &struct{}{})
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.httpClient, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, hc *http.Client, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, hc, http.MethodPost, path, payload, out)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return normalizeTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "Invalid response from scan engine"}
	}
	return nil
}
