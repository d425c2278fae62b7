package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mesh-intelligence/ivory/internal/column"
	"github.com/mesh-intelligence/ivory/internal/table"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

const (
	magic   = "IVRY"
	version = 1

	headerLen  = len(magic) + 1
	trailerLen = 8
)

// Source is the read side of a table needed to encode it.
type Source interface {
	Schema() []types.ColumnInfo
	Len() int
	GetColumn(name string) ([]types.Cell, error)
}

// Encode serializes the table. The output is deterministic: equal tables
// produce identical bytes.
func Encode(t Source) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(version)

	enc := msgpack.NewEncoder(&buf)
	schema := t.Schema()
	rows := t.Len()
	if err := enc.EncodeInt(int64(len(schema))); err != nil {
		return nil, err
	}
	if err := enc.EncodeInt(int64(rows)); err != nil {
		return nil, err
	}
	for _, col := range schema {
		cells, err := t.GetColumn(col.Name)
		if err != nil {
			return nil, fmt.Errorf("read column %s: %w", col.Name, err)
		}
		if len(cells) != rows {
			return nil, fmt.Errorf("column %s has %d cells, table has %d rows", col.Name, len(cells), rows)
		}
		if err := encodeColumn(enc, col, cells); err != nil {
			return nil, fmt.Errorf("encode column %s: %w", col.Name, err)
		}
	}

	sum := xxhash.Sum64(buf.Bytes())
	var trailer [trailerLen]byte
	binary.BigEndian.PutUint64(trailer[:], sum)
	buf.Write(trailer[:])
	return buf.Bytes(), nil
}

func encodeColumn(enc *msgpack.Encoder, col types.ColumnInfo, cells []types.Cell) error {
	if err := enc.EncodeUint(uint64(col.Kind)); err != nil {
		return err
	}
	if err := enc.EncodeString(col.Name); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(len(cells))); err != nil {
		return err
	}
	for _, c := range cells {
		if c.Kind() != col.Kind {
			return fmt.Errorf("%w: cell is %s", types.ErrTypeMismatch, c.Kind())
		}
		if err := encodeCell(enc, c); err != nil {
			return err
		}
	}
	return nil
}

func encodeCell(enc *msgpack.Encoder, c types.Cell) error {
	switch c.Kind() {
	case types.KindText:
		return enc.EncodeString(c.AsText())
	case types.KindInt64:
		return enc.EncodeInt(c.AsInt64())
	case types.KindFloat64:
		return enc.EncodeFloat64(c.AsFloat64())
	case types.KindBool:
		return enc.EncodeBool(c.AsBool())
	case types.KindChar:
		return enc.EncodeUint(uint64(c.AsChar()))
	}
	return fmt.Errorf("%w: %s", types.ErrUnknownKind, c.Kind())
}

// Decode rebuilds a table from a snapshot. Any malformed, truncated or
// inconsistent input yields a *CorruptError.
func Decode(data []byte) (*table.Table, error) {
	if len(data) < headerLen+trailerLen {
		return nil, corruptf(len(data), nil, "truncated: %d bytes", len(data))
	}
	if string(data[:len(magic)]) != magic {
		return nil, corruptf(0, nil, "bad magic %q", data[:len(magic)])
	}
	if v := data[len(magic)]; v != version {
		return nil, corruptf(len(magic), nil, "unsupported version %d", v)
	}
	payload, trailer := data[:len(data)-trailerLen], data[len(data)-trailerLen:]
	if want, got := binary.BigEndian.Uint64(trailer), xxhash.Sum64(payload); want != got {
		return nil, corruptf(len(payload), nil, "checksum mismatch: stored %016x, computed %016x", want, got)
	}

	body := payload[headerLen:]
	d := decoder{r: bytes.NewReader(body), size: len(body)}
	d.dec = msgpack.NewDecoder(d.r)

	cols, err := d.decodeTable()
	if err != nil {
		return nil, err
	}
	if d.r.Len() != 0 {
		return nil, corruptf(d.off(), nil, "%d trailing bytes", d.r.Len())
	}
	t, err := table.FromColumns(cols)
	if err != nil {
		return nil, corruptf(-1, err, "invalid table")
	}
	return t, nil
}

type decoder struct {
	r    *bytes.Reader
	dec  *msgpack.Decoder
	size int
}

// off is the absolute offset into the snapshot.
func (d *decoder) off() int {
	return headerLen + d.size - d.r.Len()
}

// count decodes a non-negative count that cannot exceed the bytes left,
// since every encoded item takes at least one byte.
func (d *decoder) count(what string) (int, error) {
	n, err := d.dec.DecodeInt()
	if err != nil {
		return 0, corruptf(d.off(), err, "read %s", what)
	}
	if n < 0 || n > d.r.Len() {
		return 0, corruptf(d.off(), nil, "%s %d out of range", what, n)
	}
	return n, nil
}

func (d *decoder) decodeTable() ([]*column.Column, error) {
	ncols, err := d.count("column count")
	if err != nil {
		return nil, err
	}
	if ncols == 0 {
		return nil, corruptf(d.off(), nil, "no columns")
	}
	rows, err := d.dec.DecodeInt()
	if err != nil {
		return nil, corruptf(d.off(), err, "read row count")
	}
	if rows < 0 {
		return nil, corruptf(d.off(), nil, "negative row count %d", rows)
	}

	cols := make([]*column.Column, 0, ncols)
	for i := 0; i < ncols; i++ {
		c, err := d.decodeColumn(rows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func (d *decoder) decodeColumn(rows int) (*column.Column, error) {
	tag, err := d.dec.DecodeUint64()
	if err != nil {
		return nil, corruptf(d.off(), err, "read kind tag")
	}
	kind := types.Kind(tag)
	if tag > 255 || !kind.Valid() {
		return nil, corruptf(d.off(), nil, "unknown kind tag %d", tag)
	}
	name, err := d.dec.DecodeString()
	if err != nil {
		return nil, corruptf(d.off(), err, "read column name")
	}
	c, err := column.New(name, kind)
	if err != nil {
		return nil, corruptf(d.off(), err, "column %q", name)
	}
	if c.Name() != name {
		return nil, corruptf(d.off(), nil, "column name %q is not normalized", name)
	}
	n, err := d.count("cell count")
	if err != nil {
		return nil, err
	}
	if n != rows {
		return nil, corruptf(d.off(), nil, "column %s declares %d rows, table has %d", name, n, rows)
	}
	for i := 0; i < n; i++ {
		cell, err := d.decodeCell(kind)
		if err != nil {
			return nil, corruptf(d.off(), err, "column %s row %d", name, i)
		}
		if err := c.Append(cell); err != nil {
			return nil, corruptf(d.off(), err, "column %s row %d", name, i)
		}
	}
	return c, nil
}

func (d *decoder) decodeCell(kind types.Kind) (types.Cell, error) {
	switch kind {
	case types.KindText:
		v, err := d.dec.DecodeString()
		return types.TextCell(v), err
	case types.KindInt64:
		v, err := d.dec.DecodeInt64()
		return types.Int64Cell(v), err
	case types.KindFloat64:
		v, err := d.dec.DecodeFloat64()
		return types.Float64Cell(v), err
	case types.KindBool:
		v, err := d.dec.DecodeBool()
		return types.BoolCell(v), err
	case types.KindChar:
		v, err := d.dec.DecodeUint64()
		if err != nil {
			return types.Cell{}, err
		}
		if v > utf8.MaxRune {
			return types.Cell{}, fmt.Errorf("code point %d out of range", v)
		}
		return types.CharCell(rune(v)), nil
	}
	return types.Cell{}, fmt.Errorf("%w: %s", types.ErrUnknownKind, kind)
}
