package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_RefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	_, err := Open(path, false)
	require.ErrorIs(t, err, ErrFileExists)

	// nothing was written
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("old"), b)
}

func TestOpen_OverwriteTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

	w, err := Open(path, true)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]byte{0xBE, 0xEF}))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xBE, 0xEF}, b)
}

func TestWriteHeader_Once(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "out.bin"), false)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader([]byte{1}))
	require.Error(t, w.WriteHeader([]byte{2}))
}

func TestWriteRow_RequiresHeader(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "out.bin"), false)
	require.NoError(t, err)
	defer w.Close()

	require.Error(t, w.WriteRow([]byte{1}))
}

func TestWriteRow_Limit(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "out.bin"), false)
	require.NoError(t, err)
	defer w.Close()

	w.SetLimit(2)
	require.NoError(t, w.WriteHeader([]byte{0}))

	require.NoError(t, w.WriteRow([]byte{1}))
	require.NoError(t, w.WriteRow([]byte{2}))
	require.ErrorIs(t, w.WriteRow([]byte{3}), ErrLimitReached)
	require.Equal(t, int64(2), w.Rows())

	// still refused, never silently dropped
	require.ErrorIs(t, w.WriteRow([]byte{4}), ErrLimitReached)
	require.Equal(t, int64(2), w.Rows())
}

func TestWriteRow_UnlimitedByDefault(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "out.bin"), false)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteHeader([]byte{0}))
	for i := 0; i < 1000; i++ {
		require.NoError(t, w.WriteRow([]byte{byte(i)}))
	}
	require.Equal(t, int64(1000), w.Rows())
}

func TestClose_FlushesAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	w, err := Open(path, false)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader([]byte{0xAB}))
	require.NoError(t, w.WriteRow([]byte{0xCD}))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAB, 0xCD}, b)
}
