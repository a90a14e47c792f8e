package audit

import "context"

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	Entries []Entry
}

func (s *StubRepository) Store(ctx context.Context, entry Entry) error {
	entry.ID = len(s.Entries) + 1
	s.Entries = append(s.Entries, entry)
	return nil
}

func (s *StubRepository) FindRecent(ctx context.Context, childID int, limit int) ([]Entry, error) {
	result := make([]Entry, 0, limit)
	for i := len(s.Entries) - 1; i >= 0 && len(result) < limit; i-- {
		if s.Entries[i].ChildID == childID {
			result = append(result, s.Entries[i])
		}
	}
	return result, nil
}

func (s *StubRepository) Cleanup() {
	s.Entries = nil
}
