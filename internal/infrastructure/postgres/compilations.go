package postgres

import (
	"context"
	"errors"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompilationRepo stores compilations and their event links. The links live
// in compilation_events and are replaced wholesale on update.
type CompilationRepo struct {
	pool *pgxpool.Pool
}

func NewCompilationRepo(pool *pgxpool.Pool) *CompilationRepo { return &CompilationRepo{pool: pool} }

func (r *CompilationRepo) Create(ctx context.Context, c *domain.Compilation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `INSERT INTO compilations (id, title, pinned) VALUES ($1, $2, $3)`, c.ID, c.Title, c.Pinned)
	if isUniqueViolation(err) {
		return domain.ErrConflict("compilation title already in use")
	}
	if err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, c.ID, c.EventIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CompilationRepo) GetByID(ctx context.Context, id string) (*domain.Compilation, error) {
	var c domain.Compilation
	err := r.pool.QueryRow(ctx, `SELECT id, title, pinned FROM compilations WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Pinned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("compilation not found")
	}
	if err != nil {
		return nil, err
	}
	c.EventIDs, err = r.linkedEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompilationRepo) Update(ctx context.Context, c *domain.Compilation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`, c.ID, c.Title, c.Pinned)
	if isUniqueViolation(err) {
		return domain.ErrConflict("compilation title already in use")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("compilation not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, c.ID); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, c.ID, c.EventIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *CompilationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("compilation not found")
	}
	return nil
}

func (r *CompilationRepo) List(ctx context.Context, pinned *bool, from, size int) ([]*domain.Compilation, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if pinned != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT id, title, pinned FROM compilations
			WHERE pinned = $1
			ORDER BY title ASC, id ASC
			LIMIT $2 OFFSET $3
		`, *pinned, size, pageOffset(from, size))
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, title, pinned FROM compilations
			ORDER BY title ASC, id ASC
			LIMIT $1 OFFSET $2
		`, size, pageOffset(from, size))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Compilation
	for rows.Next() {
		var c domain.Compilation
		if err := rows.Scan(&c.ID, &c.Title, &c.Pinned); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range out {
		if c.EventIDs, err = r.linkedEvents(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *CompilationRepo) linkedEvents(ctx context.Context, compilationID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT event_id FROM compilation_events
		WHERE compilation_id = $1
		ORDER BY event_id ASC
	`, compilationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertLinks(ctx context.Context, tx pgx.Tx, compilationID string, eventIDs []string) error {
	for _, eventID := range eventIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO compilation_events (compilation_id, event_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, compilationID, eventID)
		if err != nil {
			return err
		}
	}
	return nil
}
