package stats

import "context"

type Store interface {
	Insert(ctx context.Context, hit EndpointHit) error
	Aggregate(ctx context.Context, q StatsQuery) ([]ViewStats, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

func (s *Service) RecordHit(ctx context.Context, hit EndpointHit) error {
	if err := hit.Validate(); err != nil {
		return err
	}
	return s.store.Insert(ctx, hit)
}

func (s *Service) GetStats(ctx context.Context, q StatsQuery) ([]ViewStats, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.store.Aggregate(ctx, q)
}
