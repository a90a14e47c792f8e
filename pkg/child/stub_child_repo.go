package child

import "context"

// StubChildRepo is an in-memory Repo for tests.
type StubChildRepo struct {
	Children []Child
	nextID   int
}

func NewStubChildRepo() *StubChildRepo {
	return &StubChildRepo{}
}

func (s *StubChildRepo) CreateChild(ctx context.Context, child Child) (int, error) {
	s.nextID++
	child.Id = s.nextID
	s.Children = append(s.Children, child)
	return child.Id, nil
}

func (s *StubChildRepo) GetChild(ctx context.Context, id int) (Child, error) {
	for _, c := range s.Children {
		if c.Id == id {
			return c, nil
		}
	}
	return Child{}, ErrChildNotFound
}

func (s *StubChildRepo) UpdateChild(ctx context.Context, child Child) (Child, error) {
	for i := range s.Children {
		if s.Children[i].Id == child.Id {
			s.Children[i] = child
			return child, nil
		}
	}
	return Child{}, ErrChildNotFound
}

func (s *StubChildRepo) DeleteChild(ctx context.Context, id int) error {
	for i := range s.Children {
		if s.Children[i].Id == id {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
			return nil
		}
	}
	return ErrChildNotFound
}

func (s *StubChildRepo) GetAllChildren(ctx context.Context) ([]Child, error) {
	return append([]Child(nil), s.Children...), nil
}

func (s *StubChildRepo) Cleanup() {
	s.Children = nil
	s.nextID = 0
}
