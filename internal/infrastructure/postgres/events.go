package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/ewm-platform/ewm/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, annotation, description, category_id, initiator_id,
       lat, lon, event_date, created_on, published_on,
       paid, participant_limit, request_moderation, confirmed_requests, views, state`

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo { return &EventRepo{pool: pool} }

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, title, annotation, description, category_id, initiator_id,
		                    lat, lon, event_date, created_on, published_on,
		                    paid, participant_limit, request_moderation, confirmed_requests, views, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, e.ID, e.Title, e.Annotation, e.Description, e.CategoryID, e.InitiatorID,
		e.Location.Lat, e.Location.Lon, e.EventDate, e.CreatedOn, e.PublishedOn,
		e.Paid, e.ParticipantLimit, e.RequestModeration, e.ConfirmedRequests, e.Views, string(e.State))
	return err
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (r *EventRepo) GetPublishedByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 AND state = 'PUBLISHED'`, id)
	return scanEvent(row)
}

func (r *EventRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ANY($1) ORDER BY event_date ASC, id ASC`, ids)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE events
		SET title = $2, annotation = $3, description = $4, category_id = $5,
		    lat = $6, lon = $7, event_date = $8, published_on = $9,
		    paid = $10, participant_limit = $11, request_moderation = $12, state = $13
		WHERE id = $1
	`, e.ID, e.Title, e.Annotation, e.Description, e.CategoryID,
		e.Location.Lat, e.Location.Lon, e.EventDate, e.PublishedOn,
		e.Paid, e.ParticipantLimit, e.RequestModeration, string(e.State))
	return err
}

func (r *EventRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE events SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (r *EventRepo) ListByInitiator(ctx context.Context, initiatorID string, from, size int) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE initiator_id = $1
		ORDER BY created_on DESC, id ASC
		LIMIT $2 OFFSET $3
	`, initiatorID, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *EventRepo) AnyInCategory(ctx context.Context, categoryID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`, categoryID).Scan(&exists)
	return exists, err
}

func (r *EventRepo) SearchAdmin(ctx context.Context, f service.AdminSearch) ([]*domain.Event, error) {
	sql, args := buildAdminSearchSQL(f)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *EventRepo) SearchPublic(ctx context.Context, f service.PublicSearch) ([]*domain.Event, error) {
	sql, args := buildPublicSearchSQL(f)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// buildAdminSearchSQL assembles the admin filter as a conjunction of the
// provided criteria.
func buildAdminSearchSQL(f service.AdminSearch) (string, []any) {
	where := []string{}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if len(f.Users) > 0 {
		add("initiator_id = ANY($%d)", f.Users)
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		add("state = ANY($%d)", states)
	}
	if len(f.Categories) > 0 {
		add("category_id = ANY($%d)", f.Categories)
	}
	if f.RangeStart != nil {
		add("event_date >= $%d", *f.RangeStart)
	}
	if f.RangeEnd != nil {
		add("event_date <= $%d", *f.RangeEnd)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	sql := `SELECT ` + eventColumns + `
FROM events
` + whereSQL + `
ORDER BY created_on ASC, id ASC
LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)
	args = append(args, f.Size, pageOffset(f.From, f.Size))
	return sql, args
}

// buildPublicSearchSQL assembles the public filter. Only published events are
// visible; text matches annotation or description case-insensitively.
func buildPublicSearchSQL(f service.PublicSearch) (string, []any) {
	where := []string{"state = 'PUBLISHED'"}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		where = append(where, fmt.Sprintf("(annotation ILIKE $%d OR description ILIKE $%d)", argN, argN))
		args = append(args, "%"+text+"%")
		argN++
	}
	if len(f.Categories) > 0 {
		add("category_id = ANY($%d)", f.Categories)
	}
	if f.Paid != nil {
		add("paid = $%d", *f.Paid)
	}
	if f.RangeStart != nil {
		add("event_date >= $%d", *f.RangeStart)
	}
	if f.RangeEnd != nil {
		add("event_date <= $%d", *f.RangeEnd)
	}
	if f.OnlyAvailable {
		where = append(where, "(participant_limit = 0 OR confirmed_requests < participant_limit)")
	}

	orderBy := "event_date ASC, id ASC"
	if f.Sort == service.SortViews {
		orderBy = "views ASC, id ASC"
	}

	sql := `SELECT ` + eventColumns + `
FROM events
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY ` + orderBy + `
LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)
	args = append(args, f.Size, pageOffset(f.From, f.Size))
	return sql, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventRow(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	var state string
	err := row.Scan(
		&e.ID, &e.Title, &e.Annotation, &e.Description, &e.CategoryID, &e.InitiatorID,
		&e.Location.Lat, &e.Location.Lon, &e.EventDate, &e.CreatedOn, &e.PublishedOn,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration, &e.ConfirmedRequests, &e.Views, &state,
	)
	if err != nil {
		return nil, err
	}
	e.State = domain.EventState(state)
	return &e, nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e, err := scanEventRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("event not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	defer rows.Close()
	var out []*domain.Event
	for rows.Next() {
		e, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
