package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type StatsRepository interface {
	// Upsert replaces the stat row keyed by (childID, date) atomically, so
	// concurrent recomputes of the same day converge instead of losing
	// updates.
	Upsert(ctx context.Context, stat DailyStat) error
	Get(ctx context.Context, childID int, date string) (*DailyStat, error)
}

type StatsRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewStatsRepo(db *pgxpool.Pool) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{db: db}
}

func (r *StatsRepositoryImpl) Upsert(ctx context.Context, stat DailyStat) error {
	byType, err := json.Marshal(stat.ByType)
	if err != nil {
		return fmt.Errorf("could not marshal stat categories: %w", err)
	}
	query := `
		INSERT INTO daily_stat (child_id, date, timezone, by_type,
			sleep_minutes, bottle_ml, pumped_ml, poop_count, pee_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (child_id, date) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			by_type = EXCLUDED.by_type,
			sleep_minutes = EXCLUDED.sleep_minutes,
			bottle_ml = EXCLUDED.bottle_ml,
			pumped_ml = EXCLUDED.pumped_ml,
			poop_count = EXCLUDED.poop_count,
			pee_count = EXCLUDED.pee_count`

	_, err = r.db.Exec(ctx, query, stat.ChildID, stat.Date, stat.Timezone, byType,
		stat.SleepMinutes, stat.BottleML, stat.PumpedML, stat.PoopCount, stat.PeeCount)
	if err != nil {
		err = fmt.Errorf("could not upsert daily stat for child %d on %s: %w", stat.ChildID, stat.Date, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *StatsRepositoryImpl) Get(ctx context.Context, childID int, date string) (*DailyStat, error) {
	query := `
		SELECT child_id, date, timezone, by_type,
			sleep_minutes, bottle_ml, pumped_ml, poop_count, pee_count
		FROM daily_stat WHERE child_id = $1 AND date = $2`

	var stat DailyStat
	var byType []byte
	err := r.db.QueryRow(ctx, query, childID, date).Scan(
		&stat.ChildID, &stat.Date, &stat.Timezone, &byType,
		&stat.SleepMinutes, &stat.BottleML, &stat.PumpedML, &stat.PoopCount, &stat.PeeCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err = fmt.Errorf("could not get daily stat for child %d on %s: %w", childID, date, err)
		log.Error(err)
		return nil, err
	}

	stat.ByType = make(map[eventtype.Type]CategoryTotals)
	if err := json.Unmarshal(byType, &stat.ByType); err != nil {
		return nil, fmt.Errorf("could not unmarshal stat categories: %w", err)
	}
	return &stat, nil
}
