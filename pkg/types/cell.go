package types

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Cell is one typed value stored in a column at a given row. Only the payload
// matching Kind is meaningful; the others stay at their zero values. The zero
// Cell has KindInvalid and is rejected by every column.
type Cell struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	c    rune
}

// TextCell returns a text cell.
func TextCell(v string) Cell { return Cell{kind: KindText, s: v} }

// Int64Cell returns a 64-bit integer cell.
func Int64Cell(v int64) Cell { return Cell{kind: KindInt64, i: v} }

// Float64Cell returns a 64-bit float cell.
func Float64Cell(v float64) Cell { return Cell{kind: KindFloat64, f: v} }

// BoolCell returns a boolean cell.
func BoolCell(v bool) Cell { return Cell{kind: KindBool, b: v} }

// CharCell returns a single-character cell.
func CharCell(v rune) Cell { return Cell{kind: KindChar, c: v} }

// Zero returns the empty sentinel for kind, used to back-fill a column added
// to a table that already has rows.
func Zero(kind Kind) Cell {
	if !kind.Valid() {
		return Cell{}
	}
	return Cell{kind: kind}
}

// Kind returns the cell's kind tag.
func (c Cell) Kind() Kind { return c.kind }

// Valid reports whether the cell carries one of the defined kinds.
func (c Cell) Valid() bool { return c.kind.Valid() }

// AsText returns the text payload; empty unless Kind is KindText.
func (c Cell) AsText() string { return c.s }

// AsInt64 returns the integer payload; zero unless Kind is KindInt64.
func (c Cell) AsInt64() int64 { return c.i }

// AsFloat64 returns the float payload; zero unless Kind is KindFloat64.
func (c Cell) AsFloat64() float64 { return c.f }

// AsBool returns the boolean payload; false unless Kind is KindBool.
func (c Cell) AsBool() bool { return c.b }

// AsChar returns the character payload; zero unless Kind is KindChar.
func (c Cell) AsChar() rune { return c.c }

// Compare orders two cells of the same kind: text case-insensitively,
// numbers numerically, false before true, characters by code point.
// Cells of different kinds are ordered by kind tag.
func (c Cell) Compare(o Cell) int {
	if c.kind != o.kind {
		return cmp.Compare(c.kind, o.kind)
	}
	switch c.kind {
	case KindText:
		return CompareText(c.s, o.s)
	case KindInt64:
		return cmp.Compare(c.i, o.i)
	case KindFloat64:
		return cmp.Compare(c.f, o.f)
	case KindBool:
		switch {
		case c.b == o.b:
			return 0
		case !c.b:
			return -1
		default:
			return 1
		}
	case KindChar:
		return cmp.Compare(c.c, o.c)
	}
	return 0
}

// Equal reports whether two cells have the same kind and value. Text is
// compared case-insensitively, matching Compare.
func (c Cell) Equal(o Cell) bool {
	return c.kind == o.kind && c.Compare(o) == 0
}

// Identical reports exact equality, including the case of text payloads.
func (c Cell) Identical(o Cell) bool {
	return c == o
}

// String renders the cell value as plain text.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.s
	case KindInt64:
		return strconv.FormatInt(c.i, 10)
	case KindFloat64:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.b)
	case KindChar:
		if c.c == 0 {
			return ""
		}
		return string(c.c)
	}
	return ""
}

// MarshalJSON renders the cell as its native JSON value.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindText:
		return json.Marshal(c.s)
	case KindInt64:
		return json.Marshal(c.i)
	case KindFloat64:
		return json.Marshal(c.f)
	case KindBool:
		return json.Marshal(c.b)
	case KindChar:
		return json.Marshal(c.String())
	}
	return []byte("null"), nil
}

// ParseCell converts text into a cell of the given kind.
// Returns ErrUnknownKind for an invalid kind and ErrInvalidValue when the
// text does not parse.
func ParseCell(kind Kind, text string) (Cell, error) {
	switch kind {
	case KindText:
		return TextCell(text), nil
	case KindInt64:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Cell{}, fmt.Errorf("%w: %q is not an int64", ErrInvalidValue, text)
		}
		return Int64Cell(v), nil
	case KindFloat64:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Cell{}, fmt.Errorf("%w: %q is not a float64", ErrInvalidValue, text)
		}
		return Float64Cell(v), nil
	case KindBool:
		v, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Cell{}, fmt.Errorf("%w: %q is not a bool", ErrInvalidValue, text)
		}
		return BoolCell(v), nil
	case KindChar:
		if utf8.RuneCountInString(text) != 1 {
			return Cell{}, fmt.Errorf("%w: %q is not a single character", ErrInvalidValue, text)
		}
		r, _ := utf8.DecodeRuneInString(text)
		return CharCell(r), nil
	}
	return Cell{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// FoldText returns the case-folded form of s used for case-insensitive
// comparisons of IDs and text cells.
func FoldText(s string) string {
	return cases.Fold().String(s)
}

// CompareText compares two strings lexicographically, ignoring case.
func CompareText(a, b string) int {
	if a == b {
		return 0
	}
	return strings.Compare(FoldText(a), FoldText(b))
}
