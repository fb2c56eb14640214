package native

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexport/vexport/schema"
)

func TestBuildHeader_Golden(t *testing.T) {
	cols := schema.Columns{
		{Name: "id", Type: schema.TypeInteger},
		{Name: "name", Type: schema.TypeVarchar, Width: 10},
	}

	got, err := BuildHeader(cols)
	require.NoError(t, err)

	want := []byte{
		'N', 'A', 'T', 'I', 'V', 'E', 0x0A, 0xFF, 0x0D, 0x0A, 0x00, // signature
		0x0E, 0x00, 0x00, 0x00, // header area length = 14
		0x01, 0x00, 0x00, 0x00, // version
		0x00, 0x00, 0x00, 0x00, // filler
		0x02, 0x00, // column count
		0x08, 0x00, // id: fixed 8
		0xFF, 0xFF, // name: variable (-1)
	}
	require.Equal(t, want, got)
}

func TestBuildHeader_Idempotent(t *testing.T) {
	cols := schema.Columns{
		{Name: "b", Type: schema.TypeBoolean},
		{Name: "c", Type: schema.TypeChar, Width: 3},
		{Name: "n", Type: schema.TypeNumeric, Precision: 25, Scale: 5},
	}

	first, err := BuildHeader(cols)
	require.NoError(t, err)
	second, err := BuildHeader(cols)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildHeader_UnsupportedColumn(t *testing.T) {
	cols := schema.Columns{{Name: "dur", Type: schema.TypeInterval}}
	_, err := BuildHeader(cols)
	require.ErrorIs(t, err, schema.ErrUnsupportedType)
}
