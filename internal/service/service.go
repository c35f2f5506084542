package service

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

type Deps struct {
	Events       EventStore
	Requests     RequestStore
	Categories   CategoryStore
	Users        UserStore
	Compilations CompilationStore
	Comments     CommentStore
	Stats        HitRecorder
	Clock        Clock
}

type Service struct {
	events       EventStore
	requests     RequestStore
	categories   CategoryStore
	users        UserStore
	compilations CompilationStore
	comments     CommentStore
	stats        HitRecorder
	clock        Clock
}

func New(d Deps) *Service {
	return &Service{
		events:       d.Events,
		requests:     d.Requests,
		categories:   d.Categories,
		users:        d.Users,
		compilations: d.Compilations,
		comments:     d.Comments,
		stats:        d.Stats,
		clock:        d.Clock,
	}
}

// recordHit reports a public read to the stats collector. Failures are
// logged and swallowed so the read path never depends on the collector.
func (s *Service) recordHit(ctx context.Context, uri, ip string, ts time.Time) {
	if s.stats == nil {
		return
	}
	if err := s.stats.RecordHit(ctx, uri, ip, ts); err != nil {
		zlog.Warn().Err(err).Str("uri", uri).Msg("stats hit failed")
	}
}

// ensureUser resolves the user or fails with a not-found error.
func (s *Service) ensureUser(ctx context.Context, userID string) error {
	_, err := s.users.GetByID(ctx, userID)
	return err
}
