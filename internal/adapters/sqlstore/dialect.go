package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect holds the engine-specific catalog queries. Everything else the
// store issues is portable between MySQL and SQLite.
type Dialect interface {
	Name() string
	ListDatabases(ctx context.Context, db *sql.DB) ([]string, error)
	CurrentDatabaseSQL() string
	DropDatabaseSQL(quoted string) string
	ColumnExistsSQL() string    // args: table, column
	TablesWithColumnSQL() string // args: column
}

// DialectFor returns the dialect registered for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return mysqlDialect{}, nil
	case "sqlite3":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) ListDatabases(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (mysqlDialect) CurrentDatabaseSQL() string {
	return "SELECT COALESCE(DATABASE(), '')"
}

func (mysqlDialect) DropDatabaseSQL(quoted string) string {
	return "DROP DATABASE " + quoted
}

func (mysqlDialect) ColumnExistsSQL() string {
	return `SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`
}

func (mysqlDialect) TablesWithColumnSQL() string {
	return `SELECT DISTINCT table_name FROM information_schema.columns
		WHERE table_schema = DATABASE() AND column_name = ?
		ORDER BY table_name`
}

// sqliteDialect treats attached schemas as databases. Dropping one detaches it.
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) ListDatabases(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			seq  int
			name string
			file sql.NullString
		)
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (sqliteDialect) CurrentDatabaseSQL() string {
	return "SELECT 'main'"
}

func (sqliteDialect) DropDatabaseSQL(quoted string) string {
	return "DETACH DATABASE " + quoted
}

func (sqliteDialect) ColumnExistsSQL() string {
	return "SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?"
}

func (sqliteDialect) TablesWithColumnSQL() string {
	return `SELECT m.name FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type = 'table' AND p.name = ?
		ORDER BY m.name`
}
