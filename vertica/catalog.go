package vertica

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vexport/vexport/schema"
	"github.com/vexport/vexport/utils"
)

const columnDefinitionsQuery = `
SELECT
    column_name,
    data_type,
    data_type_length,
    numeric_precision,
    numeric_scale,
    datetime_precision,
    interval_precision,
    is_nullable
FROM v_catalog.columns
WHERE table_name = ?
ORDER BY ordinal_position`

// FetchSchema reads the table's column metadata from the catalog, in column
// order. An unknown table fails with ErrTableNotFound.
func FetchSchema(ctx context.Context, db *sql.DB, table string) (schema.Columns, error) {
	queryCtx, cancel := context.WithTimeout(ctx, StandardContextTimeout)
	defer cancel()

	rows, err := db.QueryContext(queryCtx, columnDefinitionsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("error in db.QueryContext: %w", err)
	}
	defer rows.Close()

	var cols schema.Columns
	for rows.Next() {
		var (
			name              string
			dataType          string
			dataTypeLength    sql.NullInt64
			numericPrecision  sql.NullInt64
			numericScale      sql.NullInt64
			datetimePrecision sql.NullInt64
			intervalPrecision sql.NullInt64
			nullable          bool
		)
		if err := rows.Scan(&name, &dataType, &dataTypeLength, &numericPrecision, &numericScale,
			&datetimePrecision, &intervalPrecision, &nullable); err != nil {
			return nil, fmt.Errorf("error in rows.Scan: %w", err)
		}

		t, err := schema.ParseDataType(dataType)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}

		// precision fallback order matches the catalog: numeric, then
		// datetime, then interval
		precision := numericPrecision
		if !precision.Valid {
			precision = datetimePrecision
		}
		if !precision.Valid {
			precision = intervalPrecision
		}

		cols = append(cols, schema.Column{
			Name:      name,
			Type:      t,
			Width:     utils.Deref(nullInt(dataTypeLength), 0),
			Precision: utils.Deref(nullInt(precision), 0),
			Scale:     utils.Deref(nullInt(numericScale), 0),
			Nullable:  nullable,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error in rows.Err: %w", err)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return cols, nil
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return utils.Ptr(n.Int64)
}
