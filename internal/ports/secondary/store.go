package secondary

import "context"

// OwnerJoin describes how settings rows link to the owning-entity table.
type OwnerJoin struct {
	OwnerTable    string
	NameColumn    string
	SettingsTable string
	LinkColumn    string // column on SettingsTable holding the owner id
}

// TenantStore defines the secondary port for the relational config database.
// Table and column names are identifiers validated by the implementation;
// values are always bound parameters.
type TenantStore interface {
	// ListDatabases returns every database visible to the connection.
	ListDatabases(ctx context.Context) ([]string, error)

	// CurrentDatabase returns the database the connection is using.
	CurrentDatabase(ctx context.Context) (string, error)

	// DropDatabase drops a database.
	DropDatabase(ctx context.Context, name string) error

	// ColumnExists checks whether table has column.
	ColumnExists(ctx context.Context, table, column string) (bool, error)

	// DistinctValues returns distinct non-empty values of table.column.
	DistinctValues(ctx context.Context, table, column string) ([]string, error)

	// CountCI counts rows where lower(column) equals lower(value).
	CountCI(ctx context.Context, table, column, value string) (int, error)

	// DeleteCI deletes rows where lower(column) equals lower(value).
	DeleteCI(ctx context.Context, table, column, value string) (int64, error)

	// OwnerNames returns owner names that are linked from at least one settings row.
	OwnerNames(ctx context.Context, join OwnerJoin) ([]string, error)

	// FindOwnerID returns the id of the owner whose name matches case-insensitively.
	FindOwnerID(ctx context.Context, table, nameColumn, name string) (string, bool, error)

	// TablesWithColumn lists tables that have a column with exactly this name.
	TablesWithColumn(ctx context.Context, column string) ([]string, error)

	// DeleteWhere deletes rows where column equals value.
	DeleteWhere(ctx context.Context, table, column, value string) (int64, error)
}
