package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
)

const clientsTableName = "clients"

// CreateClientExport exports all data belonging to a single client into a separate
// SQLite database file so the coach can hand the client a full copy of their data.
//
// Related tables are discovered by walking the foreign key graph from the clients
// table, so new tables added to the schema are picked up without code changes.
func (db *Database) CreateClientExport(ctx context.Context, clientID int64, basePath string) (_ string, err error) {
	exportPath := filepath.Join(basePath, fmt.Sprintf("client-db-%d.sqlite3", clientID))
	exportDsn := fmt.Sprintf("file:%s?mode=rwc", exportPath)

	conn, err := db.setupExportConnection(ctx)
	if err != nil {
		return "", fmt.Errorf("setup export connection: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close db connection: %w", closeErr)
		}
	}()

	return db.executeExport(ctx, conn, exportDsn, clientID, exportPath)
}

// setupExportConnection prepares a database connection for export operations.
func (db *Database) setupExportConnection(ctx context.Context) (*sql.Conn, error) {
	conn, err := db.ReadOnly.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db connection: %w", err)
	}

	if pragmaErr := db.configurePragmas(ctx, conn, false); pragmaErr != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("configure pragmas: %w (close error: %w)", pragmaErr, closeErr)
		}
		return nil, fmt.Errorf("configure pragmas: %w", pragmaErr)
	}

	return conn, nil
}

// configurePragmas sets up the necessary PRAGMA settings for export operations.
func (db *Database) configurePragmas(ctx context.Context, conn *sql.Conn, readOnly bool) error {
	var queryOnlyMode, foreignKeysMode string
	var modeErr, fkErr string

	if readOnly {
		queryOnlyMode = "TRUE"
		foreignKeysMode = "ON"
		modeErr = "enable read only mode"
		fkErr = "enable foreign keys"
	} else {
		queryOnlyMode = "FALSE"
		foreignKeysMode = "OFF"
		modeErr = "disable read only mode"
		fkErr = "disable foreign keys"
	}

	if _, err := conn.ExecContext(ctx, `PRAGMA QUERY_ONLY = `+queryOnlyMode); err != nil {
		return fmt.Errorf("%s: %w", modeErr, err)
	}
	if _, err := conn.ExecContext(ctx, `PRAGMA FOREIGN_KEYS = `+foreignKeysMode); err != nil {
		return fmt.Errorf("%s: %w", fkErr, err)
	}
	return nil
}

// executeExport performs the main export operation within a transaction.
func (db *Database) executeExport(
	ctx context.Context, conn *sql.Conn, exportDsn string, clientID int64, exportPath string,
) (string, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback() // Ignore rollback errors to preserve original error
		}
		// Restore original pragmas
		_ = db.configurePragmas(ctx, conn, true) // Ignore pragma restoration errors
	}()

	_, err = tx.ExecContext(ctx, `ATTACH DATABASE ? AS export`, exportDsn)
	if err != nil {
		return "", fmt.Errorf("create export database: %w", err)
	}

	err = db.validateClientsTable(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("validate clients table: %w", err)
	}

	clientRelatedTables, err := db.findClientRelatedTables(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("find client related tables: %w", err)
	}

	err = db.copyTableSchemas(ctx, tx, clientRelatedTables)
	if err != nil {
		return "", fmt.Errorf("copy table schemas: %w", err)
	}

	err = db.copyTableData(ctx, tx, clientRelatedTables, clientID)
	if err != nil {
		return "", fmt.Errorf("copy table data: %w", err)
	}

	_, err = tx.ExecContext(ctx, `PRAGMA export.foreign_keys = ON`)
	if err != nil {
		return "", fmt.Errorf("re-enable foreign keys in export database: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return "", fmt.Errorf("commit export database: %w", err)
	}
	committed = true

	return exportPath, nil
}

// validateClientsTable checks if the clients table exists.
func (db *Database) validateClientsTable(ctx context.Context, tx *sql.Tx) error {
	var count int
	query := `SELECT COUNT(*) FROM sqlite_schema WHERE type = 'table' AND name = ?`
	if err := tx.QueryRowContext(ctx, query, clientsTableName).Scan(&count); err != nil {
		return fmt.Errorf("check clients table existence: %w", err)
	}
	if count == 0 {
		return errors.New("clients table does not exist")
	}
	return nil
}

// copyTableSchemas copies the schemas for all client-related tables.
func (db *Database) copyTableSchemas(ctx context.Context, tx *sql.Tx, tables []clientTable) error {
	for _, table := range tables {
		if err := db.copyTableSchema(ctx, tx, table.name); err != nil {
			return fmt.Errorf("copy schema for table %s: %w", table.name, err)
		}
	}
	return nil
}

// copyTableData copies data for client-related tables in proper order.
func (db *Database) copyTableData(ctx context.Context, tx *sql.Tx, tables []clientTable, clientID int64) error {
	// First copy tables without a client filter (referenced tables like coaches)
	for _, table := range tables {
		if table.whereClause == "" {
			if err := db.copyClientTableData(ctx, tx, table, clientID); err != nil {
				return fmt.Errorf("copy data for table %s: %w", table.name, err)
			}
		}
	}

	// Then copy client-scoped tables
	for _, table := range tables {
		if table.whereClause != "" {
			if err := db.copyClientTableData(ctx, tx, table, clientID); err != nil {
				return fmt.Errorf("copy data for table %s: %w", table.name, err)
			}
		}
	}

	return nil
}

// clientTable represents a table and the filter that scopes its rows to one client.
//
// The whereClause contains exactly one placeholder for the client ID, built from
// nested subqueries when the relationship is indirect, e.g. for meals:
//
//	meal_plan_day_id IN (SELECT id FROM main.meal_plan_days
//	    WHERE meal_plan_id IN (SELECT id FROM main.meal_plans WHERE client_id = ?))
//
// An empty whereClause marks a referenced table whose rows are copied in full.
type clientTable struct {
	name        string
	whereClause string
}

// findClientRelatedTables discovers all tables that are directly or indirectly related to the clients table.
func (db *Database) findClientRelatedTables(ctx context.Context, tx *sql.Tx) ([]clientTable, error) {
	const initialCapacity = 16
	result := make([]clientTable, 0, initialCapacity)

	// Start with the clients table itself
	result = append(result, clientTable{name: clientsTableName, whereClause: "id = ?"})

	tables, err := db.getAllTableNames(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("get all table names: %w", err)
	}

	discovered, err := db.discoverClientRelatedTables(ctx, tx, tables)
	if err != nil {
		return nil, fmt.Errorf("discover client related tables: %w", err)
	}

	// Convert discovered tables to clientTable structs
	for tableName, whereClause := range discovered {
		if tableName != clientsTableName {
			result = append(result, clientTable{name: tableName, whereClause: whereClause})
		}
	}

	// Add referenced tables for foreign key constraints
	referencedTables, err := db.findReferencedTables(ctx, tx, result, discovered)
	if err != nil {
		return nil, fmt.Errorf("find referenced tables: %w", err)
	}

	for tableName := range referencedTables {
		result = append(result, clientTable{name: tableName, whereClause: ""})
	}

	return result, nil
}

// getAllTableNames retrieves all table names except 'clients'.
func (db *Database) getAllTableNames(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM sqlite_schema WHERE type = 'table' AND name != ?`, clientsTableName)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("close rows: %w", closeErr)
			}
		}
	}()

	var tables []string
	for rows.Next() {
		var tableName string
		err = rows.Scan(&tableName)
		if err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate over tables: %w", err)
	}

	return tables, nil
}

// discoverClientRelatedTables recursively finds tables related to clients through foreign keys.
func (db *Database) discoverClientRelatedTables(
	ctx context.Context, tx *sql.Tx, tables []string,
) (map[string]string, error) {
	discovered := map[string]string{clientsTableName: "id = ?"}

	changed := true
	for changed {
		changed = false

		for _, tableName := range tables {
			if _, alreadyDiscovered := discovered[tableName]; alreadyDiscovered {
				continue
			}

			found, whereClause, err := db.checkTableForeignKeys(ctx, tx, tableName, discovered)
			if err != nil {
				return nil, fmt.Errorf("check foreign keys for table %s: %w", tableName, err)
			}

			if found {
				discovered[tableName] = whereClause
				changed = true
			}
		}
	}

	return discovered, nil
}

// checkTableForeignKeys checks if a table references client-related tables through foreign keys.
//
// A direct foreign key to clients.id wins over an indirect one so that rows with
// a NULL intermediate reference still land in the export.
func (db *Database) checkTableForeignKeys(
	ctx context.Context, tx *sql.Tx, tableName string, discovered map[string]string,
) (bool, string, error) {
	fkRows, err := tx.QueryContext(ctx, `SELECT "table", "from", "to" FROM pragma_foreign_key_list(?)`, tableName)
	if err != nil {
		return false, "", fmt.Errorf("query foreign keys: %w", err)
	}
	defer func() {
		if closeErr := fkRows.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("close foreign key rows: %w", closeErr)
			}
		}
	}()

	var indirectClause string
	for fkRows.Next() {
		var referencedTable, fromColumn, toColumn string
		err = fkRows.Scan(&referencedTable, &fromColumn, &toColumn)
		if err != nil {
			return false, "", fmt.Errorf("scan foreign key: %w", err)
		}

		parentClause, exists := discovered[referencedTable]
		if !exists {
			continue
		}
		if referencedTable == clientsTableName && toColumn == "id" {
			return true, fromColumn + " = ?", nil
		}
		if indirectClause == "" {
			indirectClause = fmt.Sprintf("%s IN (SELECT %s FROM main.%s WHERE %s)",
				fromColumn, toColumn, referencedTable, parentClause)
		}
	}

	err = fkRows.Err()
	if err != nil {
		return false, "", fmt.Errorf("iterate foreign key rows: %w", err)
	}

	if indirectClause != "" {
		return true, indirectClause, nil
	}
	return false, "", nil
}

// findReferencedTables finds tables that are referenced by client-related tables.
func (db *Database) findReferencedTables(
	ctx context.Context, tx *sql.Tx, clientTables []clientTable, discovered map[string]string,
) (map[string]bool, error) {
	referencedTables := make(map[string]bool)

	for _, table := range clientTables {
		refs, err := db.getTableReferences(ctx, tx, table.name)
		if err != nil {
			return nil, fmt.Errorf("get references for table %s: %w", table.name, err)
		}

		for _, ref := range refs {
			if _, alreadyDiscovered := discovered[ref]; !alreadyDiscovered {
				referencedTables[ref] = true
			}
		}
	}

	return referencedTables, nil
}

// getTableReferences gets all tables referenced by the given table.
func (db *Database) getTableReferences(ctx context.Context, tx *sql.Tx, tableName string) ([]string, error) {
	fkRows, err := tx.QueryContext(ctx, `SELECT "table", "from", "to" FROM pragma_foreign_key_list(?)`, tableName)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer func() {
		if closeErr := fkRows.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("close foreign key rows: %w", closeErr)
			}
		}
	}()

	var references []string
	for fkRows.Next() {
		var referencedTable, fromColumn, toColumn string
		err = fkRows.Scan(&referencedTable, &fromColumn, &toColumn)
		if err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		references = append(references, referencedTable)
	}

	err = fkRows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate foreign key rows: %w", err)
	}

	return references, nil
}

// copyTableSchema copies the schema for a table from the main database to the export database.
func (db *Database) copyTableSchema(ctx context.Context, tx *sql.Tx, tableName string) error {
	// Get the CREATE TABLE statement
	var createSQL string
	schemaQuery := `SELECT sql FROM sqlite_schema WHERE type = 'table' AND name = ?`
	err := tx.QueryRowContext(ctx, schemaQuery, tableName).Scan(&createSQL)
	if err != nil {
		return fmt.Errorf("get schema for table %s: %w", tableName, err)
	}

	// Replace the table name with export.tableName to create it in the export database
	exportSQL := fmt.Sprintf("CREATE TABLE export.%s%s", tableName, createSQL[len("CREATE TABLE "+tableName):])
	_, err = tx.ExecContext(ctx, exportSQL)
	if err != nil {
		return fmt.Errorf("create table schema in export db: %w", err)
	}

	return nil
}

// copyClientTableData copies data for a specific client from a table to the export database.
func (db *Database) copyClientTableData(ctx context.Context, tx *sql.Tx, table clientTable, clientID int64) error {
	query := "INSERT INTO export." + table.name + " SELECT * FROM main." + table.name
	var args []interface{}
	if table.whereClause != "" {
		query += " WHERE " + table.whereClause
		args = append(args, clientID)
	}

	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("copy data: %w", err)
	}

	return nil
}
