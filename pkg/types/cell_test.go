package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"text", KindText},
		{"STRING", KindText},
		{"int", KindInt64},
		{"Integer", KindInt64},
		{"double", KindFloat64},
		{"float64", KindFloat64},
		{"boolean", KindBool},
		{" char ", KindChar},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("decimal")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(ColumnInfo{Name: "AGE", Kind: KindInt64})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"AGE","kind":"int64"}`, string(data))

	var info ColumnInfo
	require.NoError(t, json.Unmarshal([]byte(`{"name":"X","kind":"double"}`), &info))
	assert.Equal(t, KindFloat64, info.Kind)

	_, err = json.Marshal(KindInvalid)
	assert.Error(t, err)
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		text    string
		want    Cell
		wantErr error
	}{
		{name: "text keeps case", kind: KindText, text: "Alice", want: TextCell("Alice")},
		{name: "int", kind: KindInt64, text: " 42", want: Int64Cell(42)},
		{name: "negative int", kind: KindInt64, text: "-7", want: Int64Cell(-7)},
		{name: "float", kind: KindFloat64, text: "2.5", want: Float64Cell(2.5)},
		{name: "bool", kind: KindBool, text: "true", want: BoolCell(true)},
		{name: "char", kind: KindChar, text: "é", want: CharCell('é')},
		{name: "bad int", kind: KindInt64, text: "4x", wantErr: ErrInvalidValue},
		{name: "bad float", kind: KindFloat64, text: "abc", wantErr: ErrInvalidValue},
		{name: "bad bool", kind: KindBool, text: "yes!", wantErr: ErrInvalidValue},
		{name: "two chars", kind: KindChar, text: "ab", wantErr: ErrInvalidValue},
		{name: "empty char", kind: KindChar, text: "", wantErr: ErrInvalidValue},
		{name: "invalid kind", kind: KindInvalid, text: "x", wantErr: ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCell(tt.kind, tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Identical(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestCellCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Cell
		want int
	}{
		{"text ignores case", TextCell("apple"), TextCell("APPLE"), 0},
		{"text lexicographic", TextCell("apple"), TextCell("Banana"), -1},
		{"text reverse", TextCell("b"), TextCell("A"), 1},
		{"int natural order", Int64Cell(10), Int64Cell(9), 1},
		{"negative int", Int64Cell(-3), Int64Cell(2), -1},
		{"float natural order", Float64Cell(1.5), Float64Cell(1.25), 1},
		{"false before true", BoolCell(false), BoolCell(true), -1},
		{"bools equal", BoolCell(true), BoolCell(true), 0},
		{"char code point", CharCell('a'), CharCell('b'), -1},
		{"mixed kinds by tag", TextCell("z"), Int64Cell(0), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
		})
	}
}

func TestCellEqual(t *testing.T) {
	assert.True(t, TextCell("Id-1").Equal(TextCell("ID-1")))
	assert.False(t, TextCell("Id-1").Identical(TextCell("ID-1")))
	assert.False(t, Int64Cell(0).Equal(Float64Cell(0)))
	assert.True(t, Zero(KindBool).Equal(BoolCell(false)))
}

func TestZero(t *testing.T) {
	for _, k := range Kinds {
		z := Zero(k)
		assert.Equal(t, k, z.Kind())
		assert.True(t, z.Valid())
	}
	assert.False(t, Zero(KindInvalid).Valid())
	assert.Equal(t, "", Zero(KindChar).String())
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "hi", TextCell("hi").String())
	assert.Equal(t, "-12", Int64Cell(-12).String())
	assert.Equal(t, "0.1", Float64Cell(0.1).String())
	assert.Equal(t, "false", BoolCell(false).String())
	assert.Equal(t, "x", CharCell('x').String())
}

func TestCellMarshalJSON(t *testing.T) {
	row := []Cell{TextCell("a"), Int64Cell(3), Float64Cell(1.5), BoolCell(true), CharCell('q'), {}}
	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `["a",3,1.5,true,"q",null]`, string(out))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "AGE", NormalizeName(" age "))
	assert.Equal(t, "ID", NormalizeName("Id"))
	assert.Equal(t, "", NormalizeName("   "))
}
