package static

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore reads an SDE conversion held in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps an open pool. The store owns the pool from then on.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) LookupID(ctx context.Context, kind Kind, name string) (int64, error) {
	t, err := TableFor(kind)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.pool.QueryRow(ctx, t.lookupQuery("$1"), name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &NotFoundError{Kind: kind, Key: name}
	}
	if err != nil {
		return 0, fmt.Errorf("lookup %s %q: %w", kind, name, err)
	}
	return id, nil
}

func (s *PGStore) LoadUniverse(ctx context.Context) (*Universe, error) {
	rs, err := queryStructs[regionSystemRow](ctx, s.pool, regionSystemsQuery)
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	sts, err := queryStructs[stationRow](ctx, s.pool, stationsQuery)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	tys, err := queryStructs[typeRow](ctx, s.pool, typesQuery)
	if err != nil {
		return nil, fmt.Errorf("load types: %w", err)
	}
	return newUniverse(rs, sts, tys), nil
}

func (s *PGStore) Schema(ctx context.Context) (map[string][]string, error) {
	rows, err := s.pool.Query(ctx, `
SELECT table_name::text
     , column_name::text
  FROM information_schema.columns
 WHERE table_schema = 'public'
 ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, fmt.Errorf("query schema: %w", err)
	}
	defer rows.Close()

	schema := make(map[string][]string)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan schema: %w", err)
		}
		schema[table] = append(schema[table], column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return schema, nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func queryStructs[T any](ctx context.Context, pool *pgxpool.Pool, sql string) ([]T, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}
