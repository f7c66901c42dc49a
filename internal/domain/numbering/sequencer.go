package numbering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/posting/internal/domain/shared"
)

// Sequencer allocates document numbers from a NoSeries.
// It must run inside the transaction that writes the document.
type Sequencer struct {
	now func() time.Time
}

// NewSequencer creates a sequencer using the wall clock
func NewSequencer() *Sequencer {
	return &Sequencer{now: time.Now}
}

// NewSequencerWithClock creates a sequencer with a custom clock
func NewSequencerWithClock(now func() time.Time) *Sequencer {
	return &Sequencer{now: now}
}

// Next allocates the next number of seriesCode under scope.
// Lines are tried earliest starting date first; an exhausted line falls through to the next one.
func (s *Sequencer) Next(ctx context.Context, repo SeriesRepository, scope shared.Scope, seriesCode string) (string, error) {
	series, err := repo.FindByCode(ctx, scope, seriesCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError(shared.CodeSeriesNotConfigured,
				fmt.Sprintf("number series %q is not configured for %s", seriesCode, scope))
		}
		return "", err
	}

	at := s.now()
	lines, err := repo.FindLinesForUpdate(ctx, scope, series.ID, at)
	if err != nil {
		return "", err
	}
	candidates := CandidateLines(lines, at)
	if len(candidates) == 0 {
		return "", shared.NewDomainError(shared.CodeSeriesNotConfigured,
			fmt.Sprintf("number series %q has no line valid on %s", seriesCode, at.Format("2006-01-02")))
	}

	for _, line := range candidates {
		number, err := line.Advance(at)
		if err == nil {
			if err := repo.SaveLine(ctx, scope, line); err != nil {
				return "", err
			}
			return number.String(), nil
		}
		if !errors.Is(err, ErrLineExhausted) {
			return "", shared.NewDomainError(shared.CodeSeriesNotConfigured,
				fmt.Sprintf("number series %q has an invalid line: %v", seriesCode, err))
		}
		if err := repo.SaveLine(ctx, scope, line); err != nil {
			return "", err
		}
	}

	return "", shared.NewDomainError(shared.CodeSeriesExhausted,
		fmt.Sprintf("number series %q is exhausted", seriesCode))
}
