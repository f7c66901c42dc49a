package numbering

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrLineExhausted is returned when a series line can not produce another number
var ErrLineExhausted = errors.New("series line exhausted")

// NoSeries is a scoped sequence definition used to generate document numbers
type NoSeries struct {
	shared.BaseEntity
	Scope       shared.Scope
	Code        string
	Description string
	Lines       []*NoSeriesLine
}

// NoSeriesLine is a date-bounded segment of a NoSeries with its own range and cursor
type NoSeriesLine struct {
	shared.BaseEntity
	SeriesID     uuid.UUID
	Scope        shared.Scope
	StartingDate time.Time
	EndingDate   *time.Time
	StartingNo   string
	EndingNo     string
	LastNoUsed   string
	IncrementBy  int
	LastDateUsed *time.Time
	Open         bool
}

// NewNoSeries creates a series with no lines
func NewNoSeries(scope shared.Scope, code, description string) (*NoSeries, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "series code cannot be empty")
	}
	return &NoSeries{
		BaseEntity:  shared.NewBaseEntity(),
		Scope:       scope,
		Code:        code,
		Description: description,
	}, nil
}

// AddLine appends a new open line valid from startingDate
func (s *NoSeries) AddLine(startingDate time.Time, startingNo, endingNo string, incrementBy int) (*NoSeriesLine, error) {
	start, err := ParseDocumentNumber(startingNo)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("invalid starting number: %v", err))
	}
	if endingNo != "" {
		end, err := ParseDocumentNumber(endingNo)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("invalid ending number: %v", err))
		}
		if start.Exceeds(end) {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "starting number is beyond ending number")
		}
	}
	if incrementBy <= 0 {
		incrementBy = 1
	}
	line := &NoSeriesLine{
		BaseEntity:   shared.NewBaseEntity(),
		SeriesID:     s.ID,
		Scope:        s.Scope,
		StartingDate: startingDate,
		StartingNo:   startingNo,
		EndingNo:     endingNo,
		IncrementBy:  incrementBy,
		Open:         true,
	}
	s.Lines = append(s.Lines, line)
	return line, nil
}

// CoversDate reports whether the line's validity window contains at
func (l *NoSeriesLine) CoversDate(at time.Time) bool {
	if at.Before(l.StartingDate) {
		return false
	}
	if l.EndingDate != nil && at.After(*l.EndingDate) {
		return false
	}
	return true
}

// Peek computes the number the line would hand out next without changing it
func (l *NoSeriesLine) Peek() (DocumentNumber, error) {
	var next DocumentNumber
	if l.LastNoUsed == "" {
		start, err := ParseDocumentNumber(l.StartingNo)
		if err != nil {
			return DocumentNumber{}, err
		}
		next = start
	} else {
		last, err := ParseDocumentNumber(l.LastNoUsed)
		if err != nil {
			return DocumentNumber{}, err
		}
		step := l.IncrementBy
		if step <= 0 {
			step = 1
		}
		next, err = last.Next(uint64(step))
		if err != nil {
			return DocumentNumber{}, fmt.Errorf("%w: %v", ErrLineExhausted, err)
		}
	}

	if l.EndingNo != "" {
		end, err := ParseDocumentNumber(l.EndingNo)
		if err != nil {
			return DocumentNumber{}, err
		}
		if next.Exceeds(end) {
			return DocumentNumber{}, fmt.Errorf("%w: %s is beyond %s", ErrLineExhausted, next, l.EndingNo)
		}
	}
	return next, nil
}

// Advance hands out the next number and moves the cursor. An exhausted line is closed.
func (l *NoSeriesLine) Advance(at time.Time) (DocumentNumber, error) {
	next, err := l.Peek()
	if err != nil {
		if errors.Is(err, ErrLineExhausted) {
			l.Open = false
			l.Touch()
		}
		return DocumentNumber{}, err
	}
	l.LastNoUsed = next.String()
	l.LastDateUsed = &at
	l.Touch()
	return next, nil
}

// CandidateLines returns the open lines covering at, earliest starting date first
func CandidateLines(lines []*NoSeriesLine, at time.Time) []*NoSeriesLine {
	candidates := make([]*NoSeriesLine, 0, len(lines))
	for _, l := range lines {
		if l.Open && l.CoversDate(at) {
			candidates = append(candidates, l)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].StartingDate.Equal(candidates[j].StartingDate) {
			return candidates[i].ID.String() < candidates[j].ID.String()
		}
		return candidates[i].StartingDate.Before(candidates[j].StartingDate)
	})
	return candidates
}
