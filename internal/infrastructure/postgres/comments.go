package postgres

import (
	"context"
	"errors"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo { return &CommentRepo{pool: pool} }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, event_id, author_id, text, created)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.EventID, c.AuthorID, c.Text, c.Created)
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.pool.QueryRow(ctx, `
		SELECT id, event_id, author_id, text, created FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.EventID, &c.AuthorID, &c.Text, &c.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("comment not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET text = $2 WHERE id = $1`, c.ID, c.Text)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("comment not found")
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("comment not found")
	}
	return nil
}

func (r *CommentRepo) ListByEvent(ctx context.Context, eventID string, from, size int) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, author_id, text, created
		FROM comments
		WHERE event_id = $1
		ORDER BY created DESC, id ASC
		LIMIT $2 OFFSET $3
	`, eventID, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.EventID, &c.AuthorID, &c.Text, &c.Created); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
