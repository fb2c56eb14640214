package vertica

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/vexport/vexport/native"
	"github.com/vexport/vexport/schema"
)

var ErrUnexpectedDriverType = errors.New("unexpected driver value type")

// timeFormats the driver may hand back for time/timetz columns.
const (
	timeLayout   = "15:04:05.999999"
	timeTzLayout = "15:04:05.999999Z07:00"
)

// driverValue converts one raw database/sql value into a codec value, per the
// column's declared type. Bytes are copied because the driver may reuse its
// scan buffers on the next fetch.
func driverValue(col schema.Column, raw any) (native.Value, error) {
	if raw == nil {
		return native.NullValue(), nil
	}

	switch col.Type {
	case schema.TypeInteger:
		switch v := raw.(type) {
		case int64:
			return native.IntValue(v), nil
		case int:
			return native.IntValue(int64(v)), nil
		}

	case schema.TypeFloat:
		if v, ok := raw.(float64); ok {
			return native.FloatValue(v), nil
		}

	case schema.TypeBoolean:
		if v, ok := raw.(bool); ok {
			return native.BoolValue(v), nil
		}

	case schema.TypeChar, schema.TypeVarchar:
		switch v := raw.(type) {
		case string:
			return native.StringValue(v), nil
		case []byte:
			return native.BytesValue(copyBytes(v)), nil
		}

	case schema.TypeBinary, schema.TypeVarbinary:
		switch v := raw.(type) {
		case []byte:
			return native.BytesValue(copyBytes(v)), nil
		case string:
			return native.StringValue(v), nil
		}

	case schema.TypeDate:
		switch v := raw.(type) {
		case time.Time:
			return native.DateValue(v), nil
		case string:
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return native.Value{}, fmt.Errorf("error in time.Parse: %w", err)
			}
			return native.DateValue(t), nil
		}

	case schema.TypeTimestamp:
		// plain timestamps are zone-less: encode the wall clock the driver
		// materialized, whatever location it picked
		if v, ok := raw.(time.Time); ok {
			return native.TimestampValue(wallUTC(v)), nil
		}

	case schema.TypeTimestampTz:
		if v, ok := raw.(time.Time); ok {
			return native.TimestampValue(v), nil
		}

	case schema.TypeTime:
		switch v := raw.(type) {
		case time.Time:
			return native.TimeValue(v), nil
		case string:
			t, err := time.Parse(timeLayout, v)
			if err != nil {
				return native.Value{}, fmt.Errorf("error in time.Parse: %w", err)
			}
			return native.TimeValue(t), nil
		}

	case schema.TypeTimeTz:
		switch v := raw.(type) {
		case time.Time:
			_, offset := v.Zone()
			return native.TimeTzValue(v, offset), nil
		case string:
			t, err := time.Parse(timeTzLayout, v)
			if err != nil {
				return native.Value{}, fmt.Errorf("error in time.Parse: %w", err)
			}
			_, offset := t.Zone()
			return native.TimeTzValue(t, offset), nil
		}

	case schema.TypeNumeric:
		switch v := raw.(type) {
		case string:
			return numericFromString(v)
		case []byte:
			return numericFromString(string(v))
		case int64:
			return native.NumericValue(new(big.Rat).SetInt64(v)), nil
		case float64:
			r := new(big.Rat)
			if _, ok := r.SetString(fmt.Sprintf("%v", v)); !ok {
				return native.Value{}, fmt.Errorf("%w: unparseable float %v for %s", ErrUnexpectedDriverType, v, col.Type)
			}
			return native.NumericValue(r), nil
		}
	}

	return native.Value{}, fmt.Errorf("%w: %T for %s", ErrUnexpectedDriverType, raw, col.Type)
}

// copyBytes returns a fresh copy of b, detached from any driver-owned buffer.
func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// wallUTC rebuilds t's wall clock in UTC, discarding the location.
func wallUTC(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

func numericFromString(s string) (native.Value, error) {
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return native.Value{}, fmt.Errorf("%w: unparseable numeric %q", ErrUnexpectedDriverType, s)
	}
	return native.NumericValue(r), nil
}
