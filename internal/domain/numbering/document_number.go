package numbering

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decomposition errors
var (
	ErrNoNumericPart   = errors.New("number has no numeric part")
	ErrWidthExceeded   = errors.New("number exceeds its zero-padded width")
	ErrNumericOverflow = errors.New("number exceeds the numeric range")
)

// maxDigits is the longest digit run that always fits in a uint64
const maxDigits = 19

// DocumentNumber is a human-readable number decomposed around its last run of digits,
// e.g. "PO-2024-00017/A" is {Prefix: "PO-2024-", Value: 17, Width: 5, Suffix: "/A"}.
type DocumentNumber struct {
	Prefix string
	Value  uint64
	Width  int
	Suffix string
}

// ParseDocumentNumber splits s on its last run of ASCII digits
func ParseDocumentNumber(s string) (DocumentNumber, error) {
	end := -1
	for i := len(s) - 1; i >= 0; i-- {
		if isDigit(s[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return DocumentNumber{}, fmt.Errorf("%w: %q", ErrNoNumericPart, s)
	}
	start := end
	for start > 0 && isDigit(s[start-1]) {
		start--
	}

	digits := s[start : end+1]
	if len(digits) > maxDigits {
		return DocumentNumber{}, fmt.Errorf("%w: %q", ErrNumericOverflow, s)
	}
	value, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return DocumentNumber{}, fmt.Errorf("%w: %q", ErrNumericOverflow, s)
	}

	return DocumentNumber{
		Prefix: s[:start],
		Value:  value,
		Width:  len(digits),
		Suffix: s[end+1:],
	}, nil
}

// MustParseDocumentNumber parses s and panics on error. Intended for tests and constants.
func MustParseDocumentNumber(s string) DocumentNumber {
	n, err := ParseDocumentNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Next returns the number incremented by step, keeping prefix, suffix and width.
// A step of zero is treated as one.
func (n DocumentNumber) Next(step uint64) (DocumentNumber, error) {
	if step == 0 {
		step = 1
	}
	if n.Value > math.MaxUint64-step {
		return DocumentNumber{}, fmt.Errorf("%w: %s + %d", ErrNumericOverflow, n, step)
	}
	next := n
	next.Value = n.Value + step
	if len(strconv.FormatUint(next.Value, 10)) > n.Width {
		return DocumentNumber{}, fmt.Errorf("%w: %s + %d exceeds %d digits", ErrWidthExceeded, n, step, n.Width)
	}
	return next, nil
}

// Exceeds reports whether n is numerically beyond limit
func (n DocumentNumber) Exceeds(limit DocumentNumber) bool {
	return n.Value > limit.Value
}

// String formats the number with its zero-padded digit run
func (n DocumentNumber) String() string {
	var b strings.Builder
	b.WriteString(n.Prefix)
	digits := strconv.FormatUint(n.Value, 10)
	if pad := n.Width - len(digits); pad > 0 {
		b.WriteString(strings.Repeat("0", pad))
	}
	b.WriteString(digits)
	b.WriteString(n.Suffix)
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
