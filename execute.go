package imcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultSet is a collected query result. Rows are positional and parallel
// to Columns; Truncated is set when collection stopped at the row cap.
type ResultSet struct {
	Columns   []string
	Rows      [][]any
	Truncated bool
}

// Executor is the opaque downstream boundary: it carries a finished
// statement and its positional bind parameters to the SQL endpoint and
// returns rows or an error. The pipeline never sees transport internals.
type Executor interface {
	Query(ctx context.Context, sql string, maxRows int, args ...any) (*ResultSet, error)
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// PoolExecutor implements Executor over a pgx connection pool.
type PoolExecutor struct {
	pool *pgxpool.Pool
}

// NewPoolExecutor creates the pooled executor. Panics on invalid pool
// config; returns error only for runtime failures.
func NewPoolExecutor(ctx context.Context, connString string, cfg PoolConfig) (*PoolExecutor, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	if cfg.MaxConnLifetime != "" {
		d, err := time.ParseDuration(cfg.MaxConnLifetime)
		if err != nil {
			panic(fmt.Sprintf("imcp: invalid pool.max_conn_lifetime %q: %v", cfg.MaxConnLifetime, err))
		}
		poolConfig.MaxConnLifetime = d
	}
	if cfg.MaxConnIdleTime != "" {
		d, err := time.ParseDuration(cfg.MaxConnIdleTime)
		if err != nil {
			panic(fmt.Sprintf("imcp: invalid pool.max_conn_idle_time %q: %v", cfg.MaxConnIdleTime, err))
		}
		poolConfig.MaxConnIdleTime = d
	}
	if cfg.HealthCheckPeriod != "" {
		d, err := time.ParseDuration(cfg.HealthCheckPeriod)
		if err != nil {
			panic(fmt.Sprintf("imcp: invalid pool.health_check_period %q: %v", cfg.HealthCheckPeriod, err))
		}
		poolConfig.HealthCheckPeriod = d
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &PoolExecutor{pool: pool}, nil
}

// Query executes a read statement and collects up to maxRows rows.
func (p *PoolExecutor) Query(ctx context.Context, sql string, maxRows int, args ...any) (*ResultSet, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, maxRows)
}

// Exec executes a write statement and returns the affected row count.
// Only the opt-in action tools reach this path.
func (p *PoolExecutor) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Ping verifies connectivity.
func (p *PoolExecutor) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the pool.
func (p *PoolExecutor) Close() {
	p.pool.Close()
}

// collectRows reads rows up to maxRows. One extra Next() past the cap marks
// the result truncated without draining the remainder.
func collectRows(rows pgx.Rows, maxRows int) (*ResultSet, error) {
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	out := make([][]any, 0)
	truncated := false
	for rows.Next() {
		if maxRows > 0 && len(out) >= maxRows {
			truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = convertValue(v)
		}
		out = append(out, row)
	}
	if !truncated {
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return &ResultSet{Columns: columns, Rows: out, Truncated: truncated}, nil
}

// convertValue converts a driver-returned value to a JSON-friendly Go type.
func convertValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Sprintf("%g", val)
		}
		return val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Sprintf("%g", val)
		}
		return val
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		b, err := val.MarshalJSON()
		if err != nil {
			return nil
		}
		return string(b)
	case []byte:
		return base64.StdEncoding.EncodeToString(val)
	case string:
		return val
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			result[k] = convertValue(item)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertValue(item)
		}
		return result
	default:
		return val
	}
}

// queryWithRetry executes a read statement, retrying exactly once after a
// short backoff when the failure looks transient. Remote diagnostics are
// deterministic rejections and are never retried; neither are failures of
// our own deadline.
func queryWithRetry(ctx context.Context, exec Executor, sql string, maxRows int, backoff time.Duration, args []any) (*ResultSet, bool, error) {
	rs, err := exec.Query(ctx, sql, maxRows, args...)
	if err == nil || !isTransient(ctx, err) {
		return rs, false, err
	}

	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}

	rs, err = exec.Query(ctx, sql, maxRows, args...)
	return rs, true, err
}

func isTransient(ctx context.Context, err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	return true
}
