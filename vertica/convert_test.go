package vertica

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vexport/vexport/native"
	"github.com/vexport/vexport/schema"
)

func TestDriverValue_Null(t *testing.T) {
	v, err := driverValue(schema.Column{Name: "x", Type: schema.TypeInteger}, nil)
	require.NoError(t, err)
	require.Equal(t, native.KindNull, v.Kind)
}

func TestDriverValue_Scalars(t *testing.T) {
	v, err := driverValue(schema.Column{Type: schema.TypeInteger}, int64(42))
	require.NoError(t, err)
	require.Equal(t, native.IntValue(42), v)

	v, err = driverValue(schema.Column{Type: schema.TypeFloat}, 2.5)
	require.NoError(t, err)
	require.Equal(t, native.FloatValue(2.5), v)

	v, err = driverValue(schema.Column{Type: schema.TypeBoolean}, true)
	require.NoError(t, err)
	require.Equal(t, native.BoolValue(true), v)

	v, err = driverValue(schema.Column{Type: schema.TypeVarchar}, "hello")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), v.Bytes)
}

func TestDriverValue_BytesAreCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v, err := driverValue(schema.Column{Type: schema.TypeVarbinary}, src)
	require.NoError(t, err)

	src[0] = 99
	require.Equal(t, []byte{1, 2, 3}, v.Bytes, "driver scan buffers must not alias the value")
}

func TestDriverValue_Temporal(t *testing.T) {
	v, err := driverValue(schema.Column{Type: schema.TypeDate}, time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, int64(1), v.Int)

	v, err = driverValue(schema.Column{Type: schema.TypeDate}, "2000-01-03")
	require.NoError(t, err)
	require.Equal(t, int64(2), v.Int)

	v, err = driverValue(schema.Column{Type: schema.TypeTimestamp}, native.Epoch.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), v.Int)

	v, err = driverValue(schema.Column{Type: schema.TypeTime}, "10:30:00")
	require.NoError(t, err)
	require.Equal(t, int64(10*3600+30*60)*1_000_000, v.Int)
}

func TestDriverValue_TimestampKeepsWallClock(t *testing.T) {
	// the same materialized value, one hour east of UTC
	loc := time.FixedZone("plus1", 3600)
	at := time.Date(2000, 1, 1, 1, 0, 0, 0, loc)

	// a zone-less timestamp encodes the wall clock as-is
	v, err := driverValue(schema.Column{Type: schema.TypeTimestamp}, at)
	require.NoError(t, err)
	require.Equal(t, int64(3600)*1_000_000, v.Int)

	// timestamptz encodes the absolute instant: 2000-01-01T01:00+01:00 is
	// 1999-12-31T23:00Z
	v, err = driverValue(schema.Column{Type: schema.TypeTimestampTz}, at)
	require.NoError(t, err)
	require.Equal(t, int64(-3600)*1_000_000, v.Int)
}

func TestDriverValue_TimeTz(t *testing.T) {
	loc := time.FixedZone("plus1", 3600)
	v, err := driverValue(schema.Column{Type: schema.TypeTimeTz}, time.Date(2024, 6, 1, 1, 0, 0, 0, loc))
	require.NoError(t, err)

	micros := int64(3600) * 1_000_000
	require.Equal(t, micros<<24|int64(3600+86400), v.Int)

	v, err = driverValue(schema.Column{Type: schema.TypeTimeTz}, "01:00:00+01:00")
	require.NoError(t, err)
	require.Equal(t, micros<<24|int64(3600+86400), v.Int)
}

func TestDriverValue_Numeric(t *testing.T) {
	v, err := driverValue(schema.Column{Type: schema.TypeNumeric}, "1.5")
	require.NoError(t, err)
	require.Equal(t, 0, v.Rat.Cmp(big.NewRat(3, 2)))

	v, err = driverValue(schema.Column{Type: schema.TypeNumeric}, "-0.125")
	require.NoError(t, err)
	require.Equal(t, 0, v.Rat.Cmp(big.NewRat(-1, 8)))

	v, err = driverValue(schema.Column{Type: schema.TypeNumeric}, int64(7))
	require.NoError(t, err)
	require.Equal(t, 0, v.Rat.Cmp(big.NewRat(7, 1)))

	_, err = driverValue(schema.Column{Type: schema.TypeNumeric}, "not a number")
	require.ErrorIs(t, err, ErrUnexpectedDriverType)
}

func TestDriverValue_UnexpectedType(t *testing.T) {
	_, err := driverValue(schema.Column{Type: schema.TypeInteger}, "42")
	require.ErrorIs(t, err, ErrUnexpectedDriverType)
}
