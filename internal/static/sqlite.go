package static

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SQLiteStore reads an SDE conversion held in a SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore wraps an open gorm handle.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) LookupID(ctx context.Context, kind Kind, name string) (int64, error) {
	t, err := TableFor(kind)
	if err != nil {
		return 0, err
	}

	var id int64
	row := s.db.WithContext(ctx).Raw(t.lookupQuery("?"), name).Row()
	err = row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &NotFoundError{Kind: kind, Key: name}
	}
	if err != nil {
		return 0, fmt.Errorf("lookup %s %q: %w", kind, name, err)
	}
	return id, nil
}

func (s *SQLiteStore) LoadUniverse(ctx context.Context) (*Universe, error) {
	db := s.db.WithContext(ctx)

	var rs []regionSystemRow
	if err := db.Raw(regionSystemsQuery).Scan(&rs).Error; err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	var sts []stationRow
	if err := db.Raw(stationsQuery).Scan(&sts).Error; err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	var tys []typeRow
	if err := db.Raw(typesQuery).Scan(&tys).Error; err != nil {
		return nil, fmt.Errorf("load types: %w", err)
	}
	return newUniverse(rs, sts, tys), nil
}

func (s *SQLiteStore) Schema(ctx context.Context) (map[string][]string, error) {
	db := s.db.WithContext(ctx)

	var names []string
	err := db.Raw(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`).
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}

	schema := make(map[string][]string, len(names))
	for _, name := range names {
		var cols []struct {
			Cid  int    `gorm:"column:cid"`
			Name string `gorm:"column:name"`
		}
		if err := db.Raw(fmt.Sprintf(`SELECT cid, name FROM pragma_table_info('%s') ORDER BY cid`, strings.ReplaceAll(name, "'", "''"))).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("query columns of %s: %w", name, err)
		}
		for _, c := range cols {
			schema[name] = append(schema[name], c.Name)
		}
	}
	return schema, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
