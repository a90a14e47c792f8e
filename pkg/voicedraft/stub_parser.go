package voicedraft

import (
	"context"
	"time"
)

// StubParser returns a canned result, for tests.
type StubParser struct {
	Result Result
	Err    error
}

func (s *StubParser) Parse(ctx context.Context, text string, localTime time.Time) (Result, error) {
	if s.Err != nil {
		return Result{}, s.Err
	}
	return s.Result, nil
}
