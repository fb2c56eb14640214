package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vexport/vexport/gologger"
	"github.com/vexport/vexport/native"
	"github.com/vexport/vexport/schema"
	"github.com/vexport/vexport/utils"
	"github.com/vexport/vexport/writer"
)

var logger = gologger.NewLogger()

const progressEvery = 100_000

type (
	// RowSource produces a finite, ordered, non-restartable sequence of rows
	// matching the extraction schema. Next returns io.EOF once the source is
	// exhausted; it may block on the upstream database.
	RowSource interface {
		Next(ctx context.Context) ([]native.Value, error)
	}
)

// Run pulls rows one at a time from src, encodes each, and writes it to w
// until the source is exhausted, the writer's row limit is reached, or any
// component fails. The first error is propagated unchanged; a partial output
// file is left in place for diagnosis. Returns the number of rows written.
func Run(ctx context.Context, cols schema.Columns, src RowSource, w *writer.FileWriter) (int64, error) {
	log := logger.With().Str("runID", utils.GenKSortedID("run_")).Logger()
	start := time.Now()

	header, err := native.BuildHeader(cols)
	if err != nil {
		return 0, fmt.Errorf("error in native.BuildHeader: %w", err)
	}
	if err := w.WriteHeader(header); err != nil {
		return 0, fmt.Errorf("error in w.WriteHeader: %w", err)
	}

	enc, err := native.NewEncoder(cols)
	if err != nil {
		return 0, fmt.Errorf("error in native.NewEncoder: %w", err)
	}

	log.Debug().Int("columns", len(cols)).Msg("starting extraction")

	for {
		row, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return w.Rows(), fmt.Errorf("error in src.Next: %w", err)
		}

		block, err := enc.EncodeRow(row)
		if err != nil {
			return w.Rows(), fmt.Errorf("error in enc.EncodeRow: %w", err)
		}

		if err := w.WriteRow(block); err != nil {
			if errors.Is(err, writer.ErrLimitReached) {
				log.Debug().Int64("rows", w.Rows()).Msg("row limit reached, stopping")
				break
			}
			return w.Rows(), fmt.Errorf("error in w.WriteRow: %w", err)
		}

		if w.Rows()%progressEvery == 0 {
			log.Info().Int64("rows", w.Rows()).Msg("extraction progress")
		}
	}

	log.Info().Int64("rows", w.Rows()).Dur("took", time.Since(start)).Msg("extraction complete")
	return w.Rows(), nil
}
