// Package sqlstore implements the tenant store over database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/devkit/internal/config"
	"github.com/example/devkit/internal/ports/secondary"
)

// ErrInvalidIdentifier is returned for table, column or database names that
// cannot be safely quoted.
var ErrInvalidIdentifier = errors.New("invalid SQL identifier")

var (
	identRe    = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)
	databaseRe = regexp.MustCompile(`^[A-Za-z0-9_$-]+$`)
)

// Store implements secondary.TenantStore.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open connection.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Open connects to the config database described by cfg.
func Open(cfg config.DBConfig) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if dsn == "" && cfg.Driver == config.DriverMySQL {
		dsn = MySQLDSN(cfg)
	}
	if dsn == "" {
		return nil, fmt.Errorf("no DSN configured for driver %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// attached schemas are per connection
		db.SetMaxOpenConns(1)
	}

	return New(db, dialect), nil
}

// MySQLDSN composes a go-sql-driver DSN from discrete settings.
func MySQLDSN(cfg config.DBConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host
	if cfg.Port > 0 {
		mc.Addr = cfg.Host + ":" + strconv.Itoa(cfg.Port)
	}
	mc.DBName = cfg.Name
	return mc.FormatDSN()
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListDatabases returns every database visible to the connection.
func (s *Store) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := s.dialect.ListDatabases(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return names, nil
}

// CurrentDatabase returns the database the connection is using.
func (s *Store) CurrentDatabase(ctx context.Context) (string, error) {
	var name string
	if err := s.db.QueryRowContext(ctx, s.dialect.CurrentDatabaseSQL()).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to read current database: %w", err)
	}
	return name, nil
}

// DropDatabase drops a database.
func (s *Store) DropDatabase(ctx context.Context, name string) error {
	if !databaseRe.MatchString(name) {
		return fmt.Errorf("%w: database %q", ErrInvalidIdentifier, name)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.DropDatabaseSQL(quote(name))); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", name, err)
	}
	return nil
}

// ColumnExists checks whether table has column.
func (s *Store) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	if err := checkIdents(table, column); err != nil {
		return false, err
	}
	var count int
	err := s.db.QueryRowContext(ctx, s.dialect.ColumnExistsSQL(), table, column).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

// DistinctValues returns distinct non-empty values of table.column.
func (s *Store) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	if err := checkIdents(table, column); err != nil {
		return nil, err
	}
	col := quote(column)
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL AND %s <> ''", col, quote(table), col, col)
	values, err := s.queryStrings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", table, column, err)
	}
	return values, nil
}

// CountCI counts rows where lower(column) equals lower(value).
func (s *Store) CountCI(ctx context.Context, table, column, value string) (int, error) {
	if err := checkIdents(table, column); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE LOWER(%s) = LOWER(?)", quote(table), quote(column))
	var count int
	if err := s.db.QueryRowContext(ctx, query, value).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}
	return count, nil
}

// DeleteCI deletes rows where lower(column) equals lower(value).
func (s *Store) DeleteCI(ctx context.Context, table, column, value string) (int64, error) {
	if err := checkIdents(table, column); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE LOWER(%s) = LOWER(?)", quote(table), quote(column))
	return s.exec(ctx, table, query, value)
}

// OwnerNames returns lowercased owner names linked from at least one settings row.
// The owner's primary key is assumed to be `id`.
func (s *Store) OwnerNames(ctx context.Context, join secondary.OwnerJoin) ([]string, error) {
	if err := checkIdents(join.OwnerTable, join.NameColumn, join.SettingsTable, join.LinkColumn); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"SELECT DISTINCT LOWER(o.%s) FROM %s o JOIN %s s ON s.%s = o.`id` WHERE o.%s IS NOT NULL",
		quote(join.NameColumn), quote(join.OwnerTable), quote(join.SettingsTable),
		quote(join.LinkColumn), quote(join.NameColumn),
	)
	names, err := s.queryStrings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read owner names: %w", err)
	}
	return names, nil
}

// FindOwnerID returns the id of the first owner whose name matches case-insensitively.
func (s *Store) FindOwnerID(ctx context.Context, table, nameColumn, name string) (string, bool, error) {
	if err := checkIdents(table, nameColumn); err != nil {
		return "", false, err
	}
	query := fmt.Sprintf("SELECT `id` FROM %s WHERE LOWER(%s) = LOWER(?) ORDER BY `id` LIMIT 1", quote(table), quote(nameColumn))

	var id string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up owner %s: %w", name, err)
	}
	return id, true, nil
}

// TablesWithColumn lists tables of the current database having the column.
func (s *Store) TablesWithColumn(ctx context.Context, column string) ([]string, error) {
	if err := checkIdents(column); err != nil {
		return nil, err
	}
	tables, err := s.queryStrings(ctx, s.dialect.TablesWithColumnSQL(), column)
	if err != nil {
		return nil, fmt.Errorf("failed to find tables with column %s: %w", column, err)
	}
	return tables, nil
}

// DeleteWhere deletes rows where column equals value.
func (s *Store) DeleteWhere(ctx context.Context, table, column, value string) (int64, error) {
	if err := checkIdents(table, column); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(table), quote(column))
	return s.exec(ctx, table, query, value)
}

func (s *Store) exec(ctx context.Context, table, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			out = append(out, v.String)
		}
	}
	return out, rows.Err()
}

func checkIdents(names ...string) error {
	for _, n := range names {
		if !identRe.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, n)
		}
	}
	return nil
}

func quote(ident string) string {
	return "`" + ident + "`"
}

var _ secondary.TenantStore = (*Store)(nil)
