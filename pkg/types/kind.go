package types

import (
	"fmt"
	"strings"
)

// Kind is the primitive type of every cell in a column. A column's kind is
// fixed when the column is created.
type Kind uint8

// Cell kinds. The numeric values are written into snapshots and must not
// change.
const (
	KindInvalid Kind = iota
	KindText
	KindInt64
	KindFloat64
	KindBool
	KindChar
)

// Kinds lists every valid kind in tag order.
var Kinds = []Kind{KindText, KindInt64, KindFloat64, KindBool, KindChar}

var kindNames = map[Kind]string{
	KindText:    "text",
	KindInt64:   "int64",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindChar:    "char",
}

var kindAliases = map[string]Kind{
	"text":      KindText,
	"string":    KindText,
	"int":       KindInt64,
	"int64":     KindInt64,
	"integer":   KindInt64,
	"float":     KindFloat64,
	"float64":   KindFloat64,
	"double":    KindFloat64,
	"bool":      KindBool,
	"boolean":   KindBool,
	"char":      KindChar,
	"character": KindChar,
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a kind name such as "text", "INTEGER" or "double".
// Returns ErrUnknownKind for anything else.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts any name ParseKind does.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
