package numbering

import (
	"testing"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeries(t *testing.T) *NoSeries {
	t.Helper()
	s, err := NewNoSeries(shared.NewScope(uuid.New(), uuid.New()), "SO", "Sales orders")
	require.NoError(t, err)
	return s
}

func TestNewNoSeries(t *testing.T) {
	_, err := NewNoSeries(shared.NewScope(uuid.New(), uuid.New()), "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNoSeries_AddLine(t *testing.T) {
	s := newTestSeries(t)

	t.Run("defaults increment to one", func(t *testing.T) {
		line, err := s.AddLine(time.Now(), "SO-0001", "SO-9999", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, line.IncrementBy)
		assert.True(t, line.Open)
		assert.Equal(t, s.ID, line.SeriesID)
		assert.Equal(t, s.Scope, line.Scope)
	})

	t.Run("rejects start beyond end", func(t *testing.T) {
		_, err := s.AddLine(time.Now(), "SO-0100", "SO-0010", 1)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects non numeric start", func(t *testing.T) {
		_, err := s.AddLine(time.Now(), "SO", "", 1)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestNoSeriesLine_Advance(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("seeds from starting number", func(t *testing.T) {
		line := &NoSeriesLine{StartingNo: "ADJ-0001", IncrementBy: 1, Open: true}
		n, err := line.Advance(now)
		require.NoError(t, err)
		assert.Equal(t, "ADJ-0001", n.String())
		assert.Equal(t, "ADJ-0001", line.LastNoUsed)
		require.NotNil(t, line.LastDateUsed)
		assert.Equal(t, now, *line.LastDateUsed)
	})

	t.Run("increments last number used", func(t *testing.T) {
		line := &NoSeriesLine{StartingNo: "ADJ-0001", LastNoUsed: "ADJ-0041", IncrementBy: 2, Open: true}
		n, err := line.Advance(now)
		require.NoError(t, err)
		assert.Equal(t, "ADJ-0043", n.String())
	})

	t.Run("ending number is inclusive", func(t *testing.T) {
		line := &NoSeriesLine{StartingNo: "A01", EndingNo: "A03", LastNoUsed: "A02", IncrementBy: 1, Open: true}
		n, err := line.Advance(now)
		require.NoError(t, err)
		assert.Equal(t, "A03", n.String())

		_, err = line.Advance(now)
		assert.ErrorIs(t, err, ErrLineExhausted)
		assert.False(t, line.Open)
		assert.Equal(t, "A03", line.LastNoUsed)
	})

	t.Run("width exhaustion closes the line", func(t *testing.T) {
		line := &NoSeriesLine{StartingNo: "B1", LastNoUsed: "B9", IncrementBy: 1, Open: true}
		_, err := line.Advance(now)
		assert.ErrorIs(t, err, ErrLineExhausted)
		assert.False(t, line.Open)
	})
}

func TestCandidateLines(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ended := now.AddDate(0, 0, -1)

	early := &NoSeriesLine{BaseEntity: shared.NewBaseEntity(), StartingDate: now.AddDate(-1, 0, 0), Open: true}
	later := &NoSeriesLine{BaseEntity: shared.NewBaseEntity(), StartingDate: now.AddDate(0, -1, 0), Open: true}
	future := &NoSeriesLine{BaseEntity: shared.NewBaseEntity(), StartingDate: now.AddDate(0, 1, 0), Open: true}
	expired := &NoSeriesLine{BaseEntity: shared.NewBaseEntity(), StartingDate: now.AddDate(-2, 0, 0), EndingDate: &ended, Open: true}
	closed := &NoSeriesLine{BaseEntity: shared.NewBaseEntity(), StartingDate: now.AddDate(-3, 0, 0), Open: false}

	got := CandidateLines([]*NoSeriesLine{later, future, expired, closed, early}, now)
	require.Len(t, got, 2)
	assert.Same(t, early, got[0])
	assert.Same(t, later, got[1])
}
