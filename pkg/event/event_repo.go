package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cradlelog/cradlelog/pkg/eventtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type EventRepository interface {
	Store(ctx context.Context, event Event) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*Event, error)
	// FindOverlapping returns the child's events of the given types whose
	// stored interval could intersect [from, to); open events (no end time)
	// are always candidates. excludeID skips the event being updated.
	FindOverlapping(ctx context.Context, childID int, types []eventtype.Type, from, to time.Time, excludeID int) ([]Event, error)
	// FindForDay returns events that can contribute to the civil day
	// [dayStart, dayEnd): started inside it, or started before and still
	// running or ended at/after dayStart.
	FindForDay(ctx context.Context, childID int, dayStart, dayEnd time.Time) ([]Event, error)
	// FindStartingBetween returns events with start time in [from, to),
	// ordered by start time ascending.
	FindStartingBetween(ctx context.Context, childID int, from, to time.Time) ([]Event, error)
}

type EventRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewEventRepo(db *pgxpool.Pool) *EventRepositoryImpl {
	return &EventRepositoryImpl{db: db}
}

const eventColumns = `id, uid, child_id, type, start_time, end_time,
	amount_ml, pee, poop, poop_color, rep_count, supplement, notes`

func (r *EventRepositoryImpl) Store(ctx context.Context, event Event) (Event, error) {
	query := `
		INSERT INTO event (uid, child_id, type, start_time, end_time,
			amount_ml, pee, poop, poop_color, rep_count, supplement, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		event.UID, event.ChildID, string(event.Type), event.StartTime, event.EndTime,
		event.Fields.AmountML, event.Fields.Pee, event.Fields.Poop, event.Fields.PoopColor,
		event.Fields.Count, event.Fields.Supplement, event.Fields.Notes,
	).Scan(&event.ID)
	if err != nil {
		if conflictErr := asStorageConflict(err); conflictErr != nil {
			return Event{}, conflictErr
		}
		err = fmt.Errorf("could not store event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event Event) (Event, error) {
	query := `
		UPDATE event
		SET type = $1, start_time = $2, end_time = $3, amount_ml = $4, pee = $5,
			poop = $6, poop_color = $7, rep_count = $8, supplement = $9, notes = $10
		WHERE id = $11`

	tag, err := r.db.Exec(ctx, query,
		string(event.Type), event.StartTime, event.EndTime,
		event.Fields.AmountML, event.Fields.Pee, event.Fields.Poop, event.Fields.PoopColor,
		event.Fields.Count, event.Fields.Supplement, event.Fields.Notes, event.ID,
	)
	if err != nil {
		if conflictErr := asStorageConflict(err); conflictErr != nil {
			return Event{}, conflictErr
		}
		err = fmt.Errorf("could not update event %d: %w", event.ID, err)
		log.Error(err)
		return Event{}, err
	}
	if tag.RowsAffected() == 0 {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM event WHERE id = $1", id)
	if err != nil {
		err = fmt.Errorf("could not delete event %d: %w", id, err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*Event, error) {
	row := r.db.QueryRow(ctx, "SELECT "+eventColumns+" FROM event WHERE id = $1", id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err = fmt.Errorf("could not find event %d: %w", id, err)
		log.Error(err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindOverlapping(ctx context.Context, childID int, types []eventtype.Type, from, to time.Time, excludeID int) ([]Event, error) {
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}
	query := `
		SELECT ` + eventColumns + `
		FROM event
		WHERE child_id = $1
		  AND type = ANY($2)
		  AND id != $3
		  AND start_time < $4
		  AND (end_time IS NULL OR end_time > $5)
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, childID, typeNames, excludeID, to, from)
	if err != nil {
		err = fmt.Errorf("could not query overlapping events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *EventRepositoryImpl) FindForDay(ctx context.Context, childID int, dayStart, dayEnd time.Time) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM event
		WHERE child_id = $1
		  AND ((start_time >= $2 AND start_time < $3)
		    OR (start_time < $2 AND (end_time IS NULL OR end_time >= $2)))
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, childID, dayStart, dayEnd)
	if err != nil {
		err = fmt.Errorf("could not query events for day: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *EventRepositoryImpl) FindStartingBetween(ctx context.Context, childID int, from, to time.Time) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM event
		WHERE child_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, childID, from, to)
	if err != nil {
		err = fmt.Errorf("could not query events starting between: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]Event, error) {
	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan event row: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	var typ string
	err := row.Scan(&e.ID, &e.UID, &e.ChildID, &typ, &e.StartTime, &e.EndTime,
		&e.Fields.AmountML, &e.Fields.Pee, &e.Fields.Poop, &e.Fields.PoopColor,
		&e.Fields.Count, &e.Fields.Supplement, &e.Fields.Notes)
	if err != nil {
		return Event{}, err
	}
	e.Type = eventtype.Type(typ)
	return e, nil
}

// asStorageConflict maps the unique-constraint guards on the event table to
// typed conflicts, so racing writers that slip past the classifier fail fast
// with the same error the classifier would have produced.
func asStorageConflict(err error) *ConflictError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "uidx_event_identity":
		return &ConflictError{Code: DuplicateActivity}
	case "uidx_event_open_exclusive":
		return &ConflictError{Code: OverlapActivity}
	}
	return nil
}
