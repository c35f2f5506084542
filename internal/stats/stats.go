// Package stats is the hit collector: an append-only log of endpoint hits
// and an aggregation query over it. It runs as its own binary with its own
// database.
package stats

import (
	"strings"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
)

// EndpointHit is a single recorded request to a tracked endpoint.
type EndpointHit struct {
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}

func (h EndpointHit) Validate() error {
	if strings.TrimSpace(h.App) == "" {
		return domain.ErrValidation("app is required")
	}
	if strings.TrimSpace(h.URI) == "" {
		return domain.ErrValidation("uri is required")
	}
	if strings.TrimSpace(h.IP) == "" {
		return domain.ErrValidation("ip is required")
	}
	if h.Timestamp.IsZero() {
		return domain.ErrValidation("timestamp is required")
	}
	return nil
}

// ViewStats is one aggregation row: hit count per app and uri.
type ViewStats struct {
	App  string
	URI  string
	Hits int64
}

// StatsQuery selects hits in [Start, End]. URIs, when present, match as
// prefixes. Unique counts distinct IPs instead of raw hits.
type StatsQuery struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}

func (q StatsQuery) Validate() error {
	if q.Start.IsZero() || q.End.IsZero() {
		return domain.ErrValidation("start and end are required")
	}
	if !q.End.After(q.Start) {
		return domain.ErrValidation("end must be after start")
	}
	return nil
}
