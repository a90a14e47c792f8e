package stats

import (
	"context"
	"fmt"
)

// StubStatsRepository is an in-memory StatsRepository for tests.
type StubStatsRepository struct {
	Stats map[string]DailyStat
}

func NewStubStatsRepo() *StubStatsRepository {
	return &StubStatsRepository{Stats: make(map[string]DailyStat)}
}

func (s *StubStatsRepository) Upsert(ctx context.Context, stat DailyStat) error {
	s.Stats[key(stat.ChildID, stat.Date)] = stat
	return nil
}

func (s *StubStatsRepository) Get(ctx context.Context, childID int, date string) (*DailyStat, error) {
	stat, ok := s.Stats[key(childID, date)]
	if !ok {
		return nil, nil
	}
	return &stat, nil
}

func (s *StubStatsRepository) Cleanup() {
	s.Stats = make(map[string]DailyStat)
}

func key(childID int, date string) string {
	return fmt.Sprintf("%d#%s", childID, date)
}
