package child

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrChildNotFound = errors.New("child not found")

type Repo interface {
	CreateChild(ctx context.Context, child Child) (int, error)
	GetChild(ctx context.Context, id int) (Child, error)
	UpdateChild(ctx context.Context, child Child) (Child, error)
	DeleteChild(ctx context.Context, id int) error
	GetAllChildren(ctx context.Context) ([]Child, error)
}

type ChildRepoImpl struct {
	db *pgxpool.Pool
}

func NewChildRepo(db *pgxpool.Pool) *ChildRepoImpl {
	return &ChildRepoImpl{db: db}
}

func (r *ChildRepoImpl) CreateChild(ctx context.Context, child Child) (int, error) {
	query := `INSERT INTO child (uid, name, birth_date, timezone) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		child.Uid,
		child.Name,
		child.BirthDate,
		child.Settings.Timezone,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create child: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *ChildRepoImpl) GetChild(ctx context.Context, id int) (Child, error) {
	query := `SELECT id, uid, name, birth_date, timezone FROM child WHERE id = $1`
	var child Child
	err := r.db.QueryRow(ctx, query, id).
		Scan(&child.Id, &child.Uid, &child.Name, &child.BirthDate, &child.Settings.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Child{}, ErrChildNotFound
		}
		err = fmt.Errorf("failed to get child %d: %w", id, err)
		log.Error(err)
		return Child{}, err
	}
	return child, nil
}

func (r *ChildRepoImpl) UpdateChild(ctx context.Context, child Child) (Child, error) {
	query := `UPDATE child SET name = $1, birth_date = $2, timezone = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, child.Name, child.BirthDate, child.Settings.Timezone, child.Id)
	if err != nil {
		err = fmt.Errorf("failed to update child %d: %w", child.Id, err)
		log.Error(err)
		return Child{}, err
	}
	if tag.RowsAffected() == 0 {
		return Child{}, ErrChildNotFound
	}
	return child, nil
}

func (r *ChildRepoImpl) DeleteChild(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM child WHERE id = $1`, id)
	if err != nil {
		err = fmt.Errorf("failed to delete child %d: %w", id, err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChildNotFound
	}
	return nil
}

func (r *ChildRepoImpl) GetAllChildren(ctx context.Context) ([]Child, error) {
	rows, err := r.db.Query(ctx, `SELECT id, uid, name, birth_date, timezone FROM child ORDER BY id`)
	if err != nil {
		err = fmt.Errorf("failed to list children: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	children := make([]Child, 0)
	for rows.Next() {
		var child Child
		if err := rows.Scan(&child.Id, &child.Uid, &child.Name, &child.BirthDate, &child.Settings.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan child row: %w", err)
		}
		children = append(children, child)
	}
	return children, rows.Err()
}
