package schema

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

type (
	// DataType is the closed set of source column types the extractor
	// understands. Anything outside this set fails before extraction starts.
	DataType int

	// Column describes one source column: its SQL type plus the catalog
	// metadata needed to pick a wire encoding.
	Column struct {
		Name      string
		Type      DataType
		Width     int64 // declared byte width, char/binary only
		Precision int64 // numeric only, 0 = undeclared
		Scale     int64 // numeric only
		Nullable  bool
	}

	Columns []Column
)

const (
	TypeInteger DataType = iota
	TypeFloat
	TypeChar
	TypeVarchar
	TypeBoolean
	TypeDate
	TypeTimestamp
	TypeTimestampTz
	TypeTime
	TypeTimeTz
	TypeVarbinary
	TypeBinary
	TypeNumeric
	TypeInterval
)

// VariableWidth is the width-table sentinel for length-prefixed columns.
const VariableWidth int16 = -1

// MaxFixedNumericPrecision is the largest numeric precision that still fits
// the 8-byte scaled-integer encoding.
const MaxFixedNumericPrecision = 18

var (
	ErrUnsupportedType = errors.New("unsupported data type")

	// catalog type names carry their arguments, e.g. `varchar(80)` or
	// `numeric(12,4)`; the arguments live in dedicated catalog columns so the
	// suffix is just stripped
	parenSuffix = regexp.MustCompile(`\(.+\)`)

	typeNames = map[string]DataType{
		"int":         TypeInteger,
		"float":       TypeFloat,
		"char":        TypeChar,
		"varchar":     TypeVarchar,
		"boolean":     TypeBoolean,
		"date":        TypeDate,
		"timestamp":   TypeTimestamp,
		"timestamptz": TypeTimestampTz,
		"time":        TypeTime,
		"timetz":      TypeTimeTz,
		"varbinary":   TypeVarbinary,
		"binary":      TypeBinary,
		"numeric":     TypeNumeric,
		"interval":    TypeInterval,
	}

	typeStrings = map[DataType]string{
		TypeInteger:     "int",
		TypeFloat:       "float",
		TypeChar:        "char",
		TypeVarchar:     "varchar",
		TypeBoolean:     "boolean",
		TypeDate:        "date",
		TypeTimestamp:   "timestamp",
		TypeTimestampTz: "timestamptz",
		TypeTime:        "time",
		TypeTimeTz:      "timetz",
		TypeVarbinary:   "varbinary",
		TypeBinary:      "binary",
		TypeNumeric:     "numeric",
		TypeInterval:    "interval",
	}
)

// ParseDataType maps a catalog type name like `varchar(80)` onto a DataType.
func ParseDataType(s string) (DataType, error) {
	name := strings.ToLower(strings.TrimSpace(parenSuffix.ReplaceAllString(s, "")))
	t, ok := typeNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
	return t, nil
}

func (d DataType) String() string {
	s, ok := typeStrings[d]
	if !ok {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return s
}

// NativeWidth returns the column's entry for the header width table:
// the fixed byte width of every value, or VariableWidth for columns that are
// encoded as length-prefixed blobs.
func (c Column) NativeWidth() (int16, error) {
	switch c.Type {
	case TypeInteger, TypeFloat, TypeDate, TypeTimestamp, TypeTimestampTz, TypeTime, TypeTimeTz:
		return 8, nil
	case TypeBoolean:
		return 1, nil
	case TypeChar, TypeBinary:
		if c.Width < 1 || c.Width > math.MaxInt16 {
			return 0, fmt.Errorf("%w: %s column %q has width %d", ErrUnsupportedType, c.Type, c.Name, c.Width)
		}
		return int16(c.Width), nil
	case TypeVarchar, TypeVarbinary:
		return VariableWidth, nil
	case TypeNumeric:
		// undeclared precision gets the variable encoding, which can hold
		// any unscaled value
		if c.Precision >= 1 && c.Precision <= MaxFixedNumericPrecision {
			return 8, nil
		}
		return VariableWidth, nil
	case TypeInterval:
		return 0, fmt.Errorf("%w: interval column %q has no native encoding", ErrUnsupportedType, c.Name)
	default:
		return 0, fmt.Errorf("%w: column %q", ErrUnsupportedType, c.Name)
	}
}

// NativeWidths maps the whole schema, failing on the first unsupported column
// so a bad table aborts before any row is pulled.
func (cs Columns) NativeWidths() ([]int16, error) {
	if len(cs) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d columns exceeds the format's column count field", ErrUnsupportedType, len(cs))
	}
	widths := make([]int16, len(cs))
	for i, c := range cs {
		w, err := c.NativeWidth()
		if err != nil {
			return nil, err
		}
		widths[i] = w
	}
	return widths, nil
}

// Validate checks that every column has a defined native encoding.
func (cs Columns) Validate() error {
	_, err := cs.NativeWidths()
	return err
}
