package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobility/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrQueryExecution marks any failure coming back from the analytical
// store: connection loss, malformed SQL, timeout. Callers match it
// with errors.Is.
var ErrQueryExecution = errors.New("query execution failed")

// Warehouse is the read-only gateway to the analytical store. All
// rendered queries are plain SELECTs; nothing here mutates the store.
type Warehouse struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewWarehouse opens a pooled connection to the analytical store.
func NewWarehouse(dsn string, maxConn, maxIdleConn int, queryTimeout time.Duration) (*Warehouse, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Warehouse{db: db, timeout: queryTimeout}, nil
}

// NewWarehouseWithDB wraps an existing connection, mainly for tests.
func NewWarehouseWithDB(db *sqlx.DB, queryTimeout time.Duration) *Warehouse {
	return &Warehouse{db: db, timeout: queryTimeout}
}

// Close closes the database connection
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// Query executes one rendered SELECT and returns the full tabular
// result. Row capping for prompt construction happens downstream, so a
// complete result remains available for display.
func (w *Warehouse) Query(ctx context.Context, sqlText string) (*model.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	rows, err := w.db.QueryxContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecution, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecution, err)
	}

	result := &model.QueryResult{
		Columns: columns,
		Rows:    []map[string]any{},
	}

	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryExecution, err)
		}
		for k, v := range row {
			// lib/pq hands text columns back as []byte
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecution, err)
	}

	return result, nil
}
