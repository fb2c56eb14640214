package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/vexport/vexport/schema"
)

var (
	ErrSchemaMismatch  = errors.New("row does not match schema")
	ErrValueTooLong    = errors.New("value exceeds column width")
	ErrNumericOverflow = errors.New("numeric value overflows column precision")
)

type (
	// Encoder turns rows into row blocks for one fixed schema. It reuses a
	// single buffer, so the slice returned by EncodeRow is only valid until
	// the next call. Not safe for concurrent use.
	Encoder struct {
		cols      schema.Columns
		bitmapLen int
		buf       []byte
	}
)

func NewEncoder(cols schema.Columns) (*Encoder, error) {
	if err := cols.Validate(); err != nil {
		return nil, fmt.Errorf("error in cols.Validate: %w", err)
	}
	return &Encoder{
		cols:      cols,
		bitmapLen: (len(cols) + 7) / 8,
	}, nil
}

// EncodeRow encodes one row as a block: a 4-byte little-endian length
// (bitmap + fields, excluding the length itself), the null bitmap (MSB-first,
// 1 = null), then every non-null field in column order.
func (e *Encoder) EncodeRow(row []Value) ([]byte, error) {
	if len(row) != len(e.cols) {
		return nil, fmt.Errorf("%w: got %d values for %d columns", ErrSchemaMismatch, len(row), len(e.cols))
	}

	e.buf = e.buf[:0]
	e.buf = append(e.buf, 0, 0, 0, 0) // length prefix, patched below

	bitmapStart := len(e.buf)
	for i := 0; i < e.bitmapLen; i++ {
		e.buf = append(e.buf, 0)
	}

	for i, v := range row {
		if v.Kind == KindNull {
			e.buf[bitmapStart+i/8] |= 1 << (7 - i%8)
			continue
		}
		var err error
		e.buf, err = appendField(e.buf, e.cols[i], v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", e.cols[i].Name, err)
		}
	}

	binary.LittleEndian.PutUint32(e.buf[0:4], uint32(len(e.buf)-4))
	return e.buf, nil
}

func appendField(buf []byte, col schema.Column, v Value) ([]byte, error) {
	switch col.Type {
	case schema.TypeInteger, schema.TypeDate, schema.TypeTimestamp, schema.TypeTimestampTz,
		schema.TypeTime, schema.TypeTimeTz:
		if v.Kind != KindInt {
			return nil, kindMismatch(col, v)
		}
		return binary.LittleEndian.AppendUint64(buf, uint64(v.Int)), nil

	case schema.TypeFloat:
		if v.Kind != KindFloat {
			return nil, kindMismatch(col, v)
		}
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Float)), nil

	case schema.TypeBoolean:
		if v.Kind != KindBool {
			return nil, kindMismatch(col, v)
		}
		if v.Bool {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case schema.TypeChar:
		if v.Kind != KindBytes {
			return nil, kindMismatch(col, v)
		}
		return appendPadded(buf, v.Bytes, int(col.Width), ' ')

	case schema.TypeBinary:
		if v.Kind != KindBytes {
			return nil, kindMismatch(col, v)
		}
		return appendPadded(buf, v.Bytes, int(col.Width), 0)

	case schema.TypeVarchar, schema.TypeVarbinary:
		if v.Kind != KindBytes {
			return nil, kindMismatch(col, v)
		}
		return appendLengthPrefixed(buf, v.Bytes)

	case schema.TypeNumeric:
		if v.Kind != KindNumeric || v.Rat == nil {
			return nil, kindMismatch(col, v)
		}
		return appendNumeric(buf, col, v.Rat)

	default:
		// interval and friends are rejected at schema mapping time
		return nil, fmt.Errorf("%w: %s", schema.ErrUnsupportedType, col.Type)
	}
}

func kindMismatch(col schema.Column, v Value) error {
	return fmt.Errorf("%w: value kind %d cannot encode as %s", ErrSchemaMismatch, v.Kind, col.Type)
}

// appendPadded writes exactly width bytes, padding short values with pad.
func appendPadded(buf, b []byte, width int, pad byte) ([]byte, error) {
	if len(b) > width {
		return nil, fmt.Errorf("%w: %d bytes, width %d", ErrValueTooLong, len(b), width)
	}
	buf = append(buf, b...)
	for i := len(b); i < width; i++ {
		buf = append(buf, pad)
	}
	return buf, nil
}

func appendLengthPrefixed(buf, b []byte) ([]byte, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes exceeds the 4-byte length prefix", ErrValueTooLong, len(b))
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...), nil
}
