package stats

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repo is the hits store on database/sql. The table is append-only;
// aggregation happens in SQL.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Insert(ctx context.Context, hit EndpointHit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hits (id, app, uri, ip, ts)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), hit.App, hit.URI, hit.IP, hit.Timestamp)
	return err
}

func (r *Repo) Aggregate(ctx context.Context, q StatsQuery) ([]ViewStats, error) {
	count := "COUNT(ip)"
	if q.Unique {
		count = "COUNT(DISTINCT ip)"
	}

	args := []any{q.Start, q.End}
	uriFilter := ""
	if len(q.URIs) > 0 {
		patterns := make([]string, len(q.URIs))
		for i, u := range q.URIs {
			patterns[i] = u + "%"
		}
		uriFilter = " AND uri LIKE ANY($3)"
		args = append(args, pq.Array(patterns))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT app, uri, `+count+` AS hits
		FROM hits
		WHERE ts >= $1 AND ts <= $2`+uriFilter+`
		GROUP BY app, uri
		ORDER BY hits DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ViewStats
	for rows.Next() {
		var v ViewStats
		if err := rows.Scan(&v.App, &v.URI, &v.Hits); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
