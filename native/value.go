package native

import (
	"math/big"
	"time"
)

type (
	// Kind tags a Value. The wire encoding is chosen by the column's
	// DataType; the Kind only has to carry the value's in-memory shape.
	Kind int

	// Value is one field of one row. It is produced fresh per row by the row
	// source and is only valid until the row's block has been encoded.
	Value struct {
		Kind  Kind
		Bool  bool
		Int   int64
		Float float64
		Rat   *big.Rat
		Bytes []byte
	}
)

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindNumeric
	KindBytes
)

// Epoch is the format's temporal reference point: dates are days since it,
// timestamps are microseconds since it.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

var epochUnix = Epoch.Unix()

func NullValue() Value {
	return Value{Kind: KindNull}
}

func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func IntValue(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

func FloatValue(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

func NumericValue(r *big.Rat) Value {
	return Value{Kind: KindNumeric, Rat: r}
}

func BytesValue(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: b}
}

func StringValue(s string) Value {
	return Value{Kind: KindBytes, Bytes: []byte(s)}
}

// DateValue converts t's civil date into days since the reference epoch,
// ignoring t's clock and zone. Second-based math rather than a Duration
// delta: the engine accepts years 1 through 9999, far past Duration's
// ±292-year range.
func DateValue(t time.Time) Value {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return IntValue((u.Unix() - epochUnix) / (24 * 60 * 60))
}

// TimestampValue converts t into microseconds since the reference epoch.
func TimestampValue(t time.Time) Value {
	secs := t.Unix() - epochUnix
	return IntValue(secs*1_000_000 + int64(t.Nanosecond())/1000)
}

// TimeValue converts t's clock into microseconds since midnight.
func TimeValue(t time.Time) Value {
	h, m, s := t.Clock()
	micros := (int64(h)*3600+int64(m)*60+int64(s))*1_000_000 + int64(t.Nanosecond())/1000
	return IntValue(micros)
}

// TimeTzValue packs microseconds since midnight together with a UTC offset:
// the upper 40 bits carry the time and the lower 24 the offset in seconds,
// biased by a day so it is never negative.
func TimeTzValue(t time.Time, offsetSeconds int) Value {
	micros := TimeValue(t).Int
	return IntValue(micros<<24 | int64(offsetSeconds+24*60*60))
}
