package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DocumentNumber
	}{
		{"prefix and padded digits", "PO-00017", DocumentNumber{Prefix: "PO-", Value: 17, Width: 5}},
		{"only the last digit run counts", "SO-2024-0009", DocumentNumber{Prefix: "SO-2024-", Value: 9, Width: 4}},
		{"suffix preserved", "ADJ001/A", DocumentNumber{Prefix: "ADJ", Value: 1, Width: 3, Suffix: "/A"}},
		{"digits only", "42", DocumentNumber{Value: 42, Width: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDocumentNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}

	t.Run("rejects string without digits", func(t *testing.T) {
		_, err := ParseDocumentNumber("ABC")
		assert.ErrorIs(t, err, ErrNoNumericPart)
	})

	t.Run("rejects digit run beyond uint64", func(t *testing.T) {
		_, err := ParseDocumentNumber("X99999999999999999999")
		assert.ErrorIs(t, err, ErrNumericOverflow)
	})
}

func TestDocumentNumber_Next(t *testing.T) {
	t.Run("keeps padding", func(t *testing.T) {
		n := MustParseDocumentNumber("PO-00099")
		next, err := n.Next(1)
		require.NoError(t, err)
		assert.Equal(t, "PO-00100", next.String())
	})

	t.Run("zero step increments by one", func(t *testing.T) {
		next, err := MustParseDocumentNumber("A1").Next(0)
		require.NoError(t, err)
		assert.Equal(t, "A2", next.String())
	})

	t.Run("custom step", func(t *testing.T) {
		next, err := MustParseDocumentNumber("INV-0010-X").Next(10)
		require.NoError(t, err)
		assert.Equal(t, "INV-0020-X", next.String())
	})

	t.Run("width exceeded", func(t *testing.T) {
		_, err := MustParseDocumentNumber("PO-999").Next(1)
		assert.ErrorIs(t, err, ErrWidthExceeded)
	})

	t.Run("numeric overflow", func(t *testing.T) {
		n := DocumentNumber{Prefix: "X", Value: ^uint64(0), Width: 20}
		_, err := n.Next(1)
		assert.ErrorIs(t, err, ErrNumericOverflow)
	})
}

func TestDocumentNumber_Exceeds(t *testing.T) {
	limit := MustParseDocumentNumber("SO-0100")
	assert.False(t, MustParseDocumentNumber("SO-0100").Exceeds(limit))
	assert.True(t, MustParseDocumentNumber("SO-0101").Exceeds(limit))
	assert.False(t, MustParseDocumentNumber("SO-0001").Exceeds(limit))
}
