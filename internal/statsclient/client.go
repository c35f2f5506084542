// Package statsclient is the main service's HTTP client for the stats
// collector.
package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
	pkgctx "github.com/ewm-platform/ewm/internal/pkg/context"
	zlog "github.com/rs/zerolog/log"
)

type Client struct {
	baseURL    string
	app        string
	httpClient *http.Client
}

func New(baseURL, app string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		app:     app,
		httpClient: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats mirrors one aggregation row from the collector.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// RecordHit posts one endpoint hit to the collector.
func (c *Client) RecordHit(ctx context.Context, uri, ip string, ts time.Time) error {
	body, err := json.Marshal(hitPayload{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: ts.UTC().Format(domain.TimeLayout),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.injectRequestID(ctx, req)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("stats collector: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Stats queries the aggregation endpoint.
func (c *Client) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(domain.TimeLayout))
	q.Set("end", end.UTC().Format(domain.TimeLayout))
	if len(uris) > 0 {
		q.Set("uris", strings.Join(uris, ","))
	}
	if unique {
		q.Set("unique", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.injectRequestID(ctx, req)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats collector: unexpected status %d", resp.StatusCode)
	}

	var out []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) injectRequestID(ctx context.Context, req *http.Request) {
	if reqID := pkgctx.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		zlog.Warn().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Dur("duration", time.Since(start)).
			Msg("stats request failed")
		return nil, err
	}
	return resp, nil
}
