package writer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

var (
	ErrFileExists = errors.New("destination file exists")

	// ErrLimitReached is a stop signal, not a failure: the driver consumes it
	// and never surfaces it to the caller.
	ErrLimitReached = errors.New("row limit reached")

	errHeaderAlreadyWritten = errors.New("header already written")
	errHeaderNotWritten     = errors.New("header not written")
)

type (
	// FileWriter owns the output stream for the lifetime of one extraction.
	// It writes the header exactly once, then a bounded sequence of row
	// blocks, and never buffers more than bufio's window.
	FileWriter struct {
		f             *os.File
		bw            *bufio.Writer
		limit         int64 // < 0 means unlimited
		rows          int64
		headerWritten bool
		closed        bool
		closeErr      error
	}
)

// Open creates the destination file. An existing path fails with
// ErrFileExists unless overwrite is set, in which case it is truncated.
func Open(path string, overwrite bool) (*FileWriter, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return nil, fmt.Errorf("error in os.OpenFile: %w", err)
	}
	return &FileWriter{
		f:     f,
		bw:    bufio.NewWriter(f),
		limit: -1,
	}, nil
}

// SetLimit caps the number of row blocks the writer will accept. A negative
// limit means unlimited. Must be set before the first WriteRow.
func (w *FileWriter) SetLimit(n int64) {
	w.limit = n
}

// WriteHeader writes the file preamble. Callable exactly once, before any row.
func (w *FileWriter) WriteHeader(header []byte) error {
	if w.headerWritten {
		return errHeaderAlreadyWritten
	}
	w.headerWritten = true
	if _, err := w.bw.Write(header); err != nil {
		return fmt.Errorf("error in bw.Write: %w", err)
	}
	return nil
}

// WriteRow appends one encoded row block. Once the limit is reached it
// refuses with ErrLimitReached instead of silently dropping the row.
func (w *FileWriter) WriteRow(block []byte) error {
	if !w.headerWritten {
		return errHeaderNotWritten
	}
	if w.limit >= 0 && w.rows >= w.limit {
		return ErrLimitReached
	}
	if _, err := w.bw.Write(block); err != nil {
		return fmt.Errorf("error in bw.Write: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of row blocks written so far.
func (w *FileWriter) Rows() int64 {
	return w.rows
}

// Close flushes and releases the stream. Safe to call more than once; later
// calls return the first result, so it can sit in a defer and still be
// checked explicitly.
func (w *FileWriter) Close() error {
	if w.closed {
		return w.closeErr
	}
	w.closed = true

	err := w.bw.Flush()
	if cerr := w.f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("error in f.Close: %w", cerr)
	}
	w.closeErr = err
	return err
}
