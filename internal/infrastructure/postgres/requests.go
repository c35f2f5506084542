package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/ewm-platform/ewm/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, event_id, requester_id, status, created`

// RequestRepo serializes every capacity-touching path on the event row.
//
// Lock order, always the same for a given event_id:
//  1. events row (FOR UPDATE)
//  2. requests row(s) (FOR UPDATE)
// Create, Cancel and Moderate all follow it, so two concurrent joins on the
// last slot cannot both observe a free slot.
type RequestRepo struct {
	pool *pgxpool.Pool
}

func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo { return &RequestRepo{pool: pool} }

func (r *RequestRepo) Create(ctx context.Context, eventID, requesterID string, now time.Time) (*domain.ParticipationRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ev, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM requests
			WHERE event_id = $1 AND requester_id = $2 AND status <> 'CANCELED'
		)
	`, eventID, requesterID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict("participation request already exists")
	}

	req, gained, err := domain.NewParticipationRequest(ev, requesterID, now)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO requests (id, event_id, requester_id, status, created)
		VALUES ($1, $2, $3, $4, $5)
	`, req.ID, req.EventID, req.RequesterID, string(req.Status), req.Created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("participation request already exists")
		}
		return nil, err
	}

	if gained > 0 {
		_, err = tx.Exec(ctx, `UPDATE events SET confirmed_requests = confirmed_requests + $2 WHERE id = $1`, eventID, gained)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepo) Cancel(ctx context.Context, requesterID, requestID string) (*domain.ParticipationRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Resolve the event first so the event row is locked before the request
	// row, same order as Create and Moderate.
	var eventID string
	err = tx.QueryRow(ctx, `SELECT event_id FROM requests WHERE id = $1 AND requester_id = $2`, requestID, requesterID).Scan(&eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("request not found")
	}
	if err != nil {
		return nil, err
	}

	if _, err := lockEvent(ctx, tx, eventID); err != nil {
		return nil, err
	}

	req := &domain.ParticipationRequest{}
	var status string
	err = tx.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE id = $1 AND requester_id = $2
		FOR UPDATE
	`, requestID, requesterID).Scan(&req.ID, &req.EventID, &req.RequesterID, &status, &req.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound("request not found")
	}
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)

	if req.Status == domain.RequestCanceled {
		return req, tx.Commit(ctx)
	}

	wasConfirmed := req.Status == domain.RequestConfirmed
	req.Status = domain.RequestCanceled

	_, err = tx.Exec(ctx, `UPDATE requests SET status = 'CANCELED' WHERE id = $1`, requestID)
	if err != nil {
		return nil, err
	}
	if wasConfirmed {
		_, err = tx.Exec(ctx, `UPDATE events SET confirmed_requests = confirmed_requests - 1 WHERE id = $1`, eventID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

// Moderate confirms or rejects a batch of pending requests under the event
// row lock. Request ids that do not belong to the event are skipped.
func (r *RequestRepo) Moderate(ctx context.Context, eventID, initiatorID string, requestIDs []string, target domain.RequestStatus) (domain.ModerationResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.ModerationResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ev, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return domain.ModerationResult{}, err
	}
	if ev.InitiatorID != initiatorID {
		return domain.ModerationResult{}, domain.ErrConflict("user is not the event initiator")
	}
	// A full event refuses any further moderation, rejections included.
	if !ev.HasFreeSlot() {
		return domain.ModerationResult{}, domain.ErrConflict("no empty place for participation")
	}

	rows, err := tx.Query(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE event_id = $1 AND id = ANY($2)
		ORDER BY created ASC, id ASC
		FOR UPDATE
	`, eventID, requestIDs)
	if err != nil {
		return domain.ModerationResult{}, err
	}
	var reqs []*domain.ParticipationRequest
	for rows.Next() {
		req := &domain.ParticipationRequest{}
		var status string
		if err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &status, &req.Created); err != nil {
			rows.Close()
			return domain.ModerationResult{}, err
		}
		req.Status = domain.RequestStatus(status)
		reqs = append(reqs, req)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.ModerationResult{}, err
	}

	res, err := domain.ModerateRequests(ev, reqs, target)
	if err != nil {
		return domain.ModerationResult{}, err
	}

	if err := setStatuses(ctx, tx, res.Confirmed, domain.RequestConfirmed); err != nil {
		return domain.ModerationResult{}, err
	}
	if err := setStatuses(ctx, tx, res.Rejected, domain.RequestRejected); err != nil {
		return domain.ModerationResult{}, err
	}
	_, err = tx.Exec(ctx, `UPDATE events SET confirmed_requests = $2 WHERE id = $1`, eventID, ev.ConfirmedRequests)
	if err != nil {
		return domain.ModerationResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ModerationResult{}, err
	}
	return res, nil
}

func (r *RequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ParticipationRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE requester_id = $1
		ORDER BY created ASC, id ASC
	`, requesterID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *RequestRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.ParticipationRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE event_id = $1
		ORDER BY created ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func lockEvent(ctx context.Context, tx pgx.Tx, eventID string) (*domain.Event, error) {
	row := tx.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID)
	return scanEvent(row)
}

func setStatuses(ctx context.Context, tx pgx.Tx, reqs []*domain.ParticipationRequest, status domain.RequestStatus) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	_, err := tx.Exec(ctx, `UPDATE requests SET status = $2 WHERE id = ANY($1)`, ids, string(status))
	return err
}

func collectRequests(rows pgx.Rows) ([]*domain.ParticipationRequest, error) {
	defer rows.Close()
	var out []*domain.ParticipationRequest
	for rows.Next() {
		req := &domain.ParticipationRequest{}
		var status string
		if err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &status, &req.Created); err != nil {
			return nil, err
		}
		req.Status = domain.RequestStatus(status)
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
