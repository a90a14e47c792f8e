package child

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	CreateChild(ctx context.Context, child Child) (Child, error)
	GetChild(ctx context.Context, id int) (Child, error)
	UpdateChild(ctx context.Context, child Child) (Child, error)
	DeleteChild(ctx context.Context, id int) error
	GetAllChildren(ctx context.Context) ([]Child, error)
	// Location resolves the child's configured timezone.
	Location(ctx context.Context, id int) (*time.Location, error)
}

type ChildServiceImpl struct {
	repo Repo
}

func NewChildService(repo Repo) *ChildServiceImpl {
	return &ChildServiceImpl{repo: repo}
}

func (s *ChildServiceImpl) CreateChild(ctx context.Context, child Child) (Child, error) {
	if child.Name == "" {
		return Child{}, fmt.Errorf("child name is required")
	}
	if child.Settings.Timezone == "" {
		child.Settings.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(child.Settings.Timezone); err != nil {
		return Child{}, fmt.Errorf("unknown timezone %q", child.Settings.Timezone)
	}
	child.Uid = uuid.NewString()
	id, err := s.repo.CreateChild(ctx, child)
	if err != nil {
		return Child{}, err
	}
	child.Id = id
	return child, nil
}

func (s *ChildServiceImpl) GetChild(ctx context.Context, id int) (Child, error) {
	return s.repo.GetChild(ctx, id)
}

func (s *ChildServiceImpl) UpdateChild(ctx context.Context, child Child) (Child, error) {
	if child.Settings.Timezone != "" {
		if _, err := time.LoadLocation(child.Settings.Timezone); err != nil {
			return Child{}, fmt.Errorf("unknown timezone %q", child.Settings.Timezone)
		}
	}
	return s.repo.UpdateChild(ctx, child)
}

func (s *ChildServiceImpl) DeleteChild(ctx context.Context, id int) error {
	return s.repo.DeleteChild(ctx, id)
}

func (s *ChildServiceImpl) GetAllChildren(ctx context.Context) ([]Child, error) {
	return s.repo.GetAllChildren(ctx)
}

func (s *ChildServiceImpl) Location(ctx context.Context, id int) (*time.Location, error) {
	child, err := s.repo.GetChild(ctx, id)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(child.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("child %d has invalid timezone %q: %w", id, child.Settings.Timezone, err)
	}
	return loc, nil
}
