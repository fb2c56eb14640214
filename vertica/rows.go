package vertica

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/vexport/vexport/native"
	"github.com/vexport/vexport/schema"
)

type (
	// TableRows streams one table's rows as codec values. It is a lazy,
	// finite, non-restartable sequence; the driver never rewinds it.
	TableRows struct {
		cols schema.Columns
		rows *sql.Rows
		dest []any
		vals []native.Value
	}
)

// QueryTable starts the extraction query. The limit is pushed into the SQL
// so the database never streams rows the writer would refuse anyway; the
// writer still enforces it independently.
func QueryTable(ctx context.Context, db *sql.DB, table string, cols schema.Columns, limit int64) (*TableRows, error) {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	if limit >= 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error in db.QueryContext: %w", err)
	}

	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}

	return &TableRows{
		cols: cols,
		rows: rows,
		dest: dest,
		vals: make([]native.Value, len(cols)),
	}, nil
}

// Next scans the next row into codec values. The returned slice is reused
// across calls, matching the encoder's one-row-at-a-time ownership.
func (tr *TableRows) Next(ctx context.Context) ([]native.Value, error) {
	// the query carries its own context, but that only interrupts the
	// database side; this keeps the pull loop itself cancelable
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !tr.rows.Next() {
		if err := tr.rows.Err(); err != nil {
			return nil, fmt.Errorf("error in rows.Err: %w", err)
		}
		return nil, io.EOF
	}

	if err := tr.rows.Scan(tr.dest...); err != nil {
		return nil, fmt.Errorf("error in rows.Scan: %w", err)
	}

	for i, col := range tr.cols {
		raw := *(tr.dest[i].(*any))
		v, err := driverValue(col, raw)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		tr.vals[i] = v
	}
	return tr.vals, nil
}

// Close releases the underlying result set.
func (tr *TableRows) Close() error {
	if err := tr.rows.Close(); err != nil {
		return fmt.Errorf("error in rows.Close: %w", err)
	}
	return nil
}
