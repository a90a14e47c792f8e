package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, entry Entry) error
	FindRecent(ctx context.Context, childID int, limit int) ([]Entry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_log (action, child_id, actor_id, before_snapshot, after_snapshot, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		string(entry.Action), entry.ChildID, entry.ActorID, entry.Before, entry.After, entry.Timestamp)
	if err != nil {
		err = fmt.Errorf("could not store audit entry: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) FindRecent(ctx context.Context, childID int, limit int) ([]Entry, error) {
	query := `
		SELECT id, action, child_id, actor_id, before_snapshot, after_snapshot, occurred_at
		FROM audit_log
		WHERE child_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, childID, limit)
	if err != nil {
		err = fmt.Errorf("could not query audit log: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var action string
		if err := rows.Scan(&e.ID, &action, &e.ChildID, &e.ActorID, &e.Before, &e.After, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("could not scan audit row: %w", err)
		}
		e.Action = Action(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
