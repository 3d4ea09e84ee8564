package sqlite

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/mkarvo/coachapp/internal/testhelpers"
)

func TestDatabase_CreateClientExport(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		clientID       int64
		setupSchema    string
		setupData      []string
		expectedTables []string
		expectedCounts map[string]int
		wantErr        bool
	}{
		{
			name:     "simple client export",
			clientID: 1,
			setupSchema: `
				CREATE TABLE clients (id INTEGER PRIMARY KEY, full_name TEXT);
				CREATE TABLE meal_plans (id INTEGER PRIMARY KEY, client_id INTEGER, calories INTEGER, FOREIGN KEY (client_id) REFERENCES clients(id));
			`,
			setupData: []string{
				"INSERT INTO clients (id, full_name) VALUES (1, 'John Doe')",
				"INSERT INTO clients (id, full_name) VALUES (2, 'Jane Smith')",
				"INSERT INTO meal_plans (id, client_id, calories) VALUES (1, 1, 2161)",
				"INSERT INTO meal_plans (id, client_id, calories) VALUES (2, 1, 2300)",
				"INSERT INTO meal_plans (id, client_id, calories) VALUES (3, 2, 1800)",
			},
			expectedTables: []string{"clients", "meal_plans"},
			expectedCounts: map[string]int{
				"clients":    1,
				"meal_plans": 2,
			},
			wantErr: false,
		},
		{
			name:     "client with no data",
			clientID: 999,
			setupSchema: `
				CREATE TABLE clients (id INTEGER PRIMARY KEY, full_name TEXT);
				CREATE TABLE meal_plans (id INTEGER PRIMARY KEY, client_id INTEGER, calories INTEGER, FOREIGN KEY (client_id) REFERENCES clients(id));
			`,
			setupData: []string{
				"INSERT INTO clients (id, full_name) VALUES (1, 'John Doe')",
				"INSERT INTO meal_plans (id, client_id, calories) VALUES (1, 1, 2161)",
			},
			expectedTables: []string{"clients", "meal_plans"},
			expectedCounts: map[string]int{
				"clients":    0,
				"meal_plans": 0,
			},
			wantErr: false,
		},
		{
			name:     "surrogate key chain scopes grandchildren",
			clientID: 1,
			setupSchema: `
				CREATE TABLE coaches (id INTEGER PRIMARY KEY);
				CREATE TABLE clients (id INTEGER PRIMARY KEY, coach_id INTEGER, full_name TEXT, FOREIGN KEY (coach_id) REFERENCES coaches(id));
				CREATE TABLE meal_plans (id INTEGER PRIMARY KEY, client_id INTEGER, FOREIGN KEY (client_id) REFERENCES clients(id));
				CREATE TABLE meal_plan_days (id INTEGER PRIMARY KEY, meal_plan_id INTEGER, day_number INTEGER, FOREIGN KEY (meal_plan_id) REFERENCES meal_plans(id));
				CREATE TABLE meals (id INTEGER PRIMARY KEY, meal_plan_day_id INTEGER, title TEXT, FOREIGN KEY (meal_plan_day_id) REFERENCES meal_plan_days(id));
			`,
			setupData: []string{
				"INSERT INTO coaches (id) VALUES (1)",
				"INSERT INTO coaches (id) VALUES (2)",
				"INSERT INTO clients (id, coach_id, full_name) VALUES (1, 1, 'John Doe')",
				"INSERT INTO clients (id, coach_id, full_name) VALUES (2, 2, 'Jane Smith')",
				"INSERT INTO meal_plans (id, client_id) VALUES (10, 1)",
				"INSERT INTO meal_plans (id, client_id) VALUES (20, 2)",
				"INSERT INTO meal_plan_days (id, meal_plan_id, day_number) VALUES (100, 10, 1)",
				"INSERT INTO meal_plan_days (id, meal_plan_id, day_number) VALUES (200, 20, 1)",
				"INSERT INTO meals (id, meal_plan_day_id, title) VALUES (1000, 100, 'Scrambled eggs with oats')",
				"INSERT INTO meals (id, meal_plan_day_id, title) VALUES (1001, 100, 'Grilled chicken with rice')",
				"INSERT INTO meals (id, meal_plan_day_id, title) VALUES (2000, 200, 'Salmon with sweet potato')",
			},
			expectedTables: []string{"coaches", "clients", "meal_plans", "meal_plan_days", "meals"},
			expectedCounts: map[string]int{
				"coaches":        2,
				"clients":        1,
				"meal_plans":     1,
				"meal_plan_days": 1,
				"meals":          2,
			},
			wantErr: false,
		},
		{
			name:     "direct client reference wins over nullable indirect one",
			clientID: 1,
			setupSchema: `
				CREATE TABLE clients (id INTEGER PRIMARY KEY, full_name TEXT);
				CREATE TABLE workout_programs (id INTEGER PRIMARY KEY, client_id INTEGER, FOREIGN KEY (client_id) REFERENCES clients(id));
				CREATE TABLE workout_days (id INTEGER PRIMARY KEY, workout_program_id INTEGER, FOREIGN KEY (workout_program_id) REFERENCES workout_programs(id));
				CREATE TABLE workout_sessions (id INTEGER PRIMARY KEY, client_id INTEGER, workout_day_id INTEGER, FOREIGN KEY (client_id) REFERENCES clients(id), FOREIGN KEY (workout_day_id) REFERENCES workout_days(id));
			`,
			setupData: []string{
				"INSERT INTO clients (id, full_name) VALUES (1, 'John Doe')",
				"INSERT INTO clients (id, full_name) VALUES (2, 'Jane Smith')",
				"INSERT INTO workout_programs (id, client_id) VALUES (10, 1)",
				"INSERT INTO workout_days (id, workout_program_id) VALUES (100, 10)",
				"INSERT INTO workout_sessions (id, client_id, workout_day_id) VALUES (1000, 1, 100)",
				"INSERT INTO workout_sessions (id, client_id, workout_day_id) VALUES (1001, 1, NULL)",
				"INSERT INTO workout_sessions (id, client_id, workout_day_id) VALUES (2000, 2, NULL)",
			},
			expectedTables: []string{"clients", "workout_programs", "workout_days", "workout_sessions"},
			expectedCounts: map[string]int{
				"clients":          1,
				"workout_programs": 1,
				"workout_days":     1,
				"workout_sessions": 2,
			},
			wantErr: false,
		},
		{
			name:     "no clients table",
			clientID: 1,
			setupSchema: `
				CREATE TABLE meal_plans (id INTEGER PRIMARY KEY, client_id INTEGER, calories INTEGER);
			`,
			setupData: []string{
				"INSERT INTO meal_plans (id, client_id, calories) VALUES (1, 1, 2161)",
			},
			expectedTables: []string{},
			wantErr:        true,
		},
		{
			name:     "unrelated tables are not exported",
			clientID: 1,
			setupSchema: `
				CREATE TABLE clients (id INTEGER PRIMARY KEY, full_name TEXT);
				CREATE TABLE sessions (token TEXT PRIMARY KEY, data BLOB, expiry REAL);
			`,
			setupData: []string{
				"INSERT INTO clients (id, full_name) VALUES (1, 'John Doe')",
			},
			expectedTables: []string{"clients"},
			expectedCounts: map[string]int{
				"clients": 1,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

			// Create main database
			db, err := connect(ctx, ":memory:", logger)
			if err != nil {
				t.Fatalf("Failed to connect to database: %v", err)
			}
			defer func(db *Database) {
				err = db.Close()
				if err != nil {
					t.Errorf("Failed to close database: %v", err)
				}
			}(db)

			// Set up schema
			_, err = db.ReadWrite.ExecContext(ctx, tt.setupSchema)
			if err != nil {
				t.Fatalf("Failed to create schema: %v", err)
			}

			// Insert test data
			for _, dataSQL := range tt.setupData {
				_, err = db.ReadWrite.ExecContext(ctx, dataSQL)
				if err != nil {
					t.Fatalf("Failed to insert test data: %v", err)
				}
			}

			// Create temporary directory for export
			tempDir := t.TempDir()

			dbPath, err := db.CreateClientExport(ctx, tt.clientID, tempDir)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateClientExport() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			// Verify the exported database file exists
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				t.Errorf("Exported database file does not exist at %s", dbPath)
				return
			}

			// Open the exported database and verify its contents
			exportedDB, err := sql.Open("sqlite3", dbPath)
			if err != nil {
				t.Fatalf("Failed to open exported database: %v", err)
			}
			defer exportedDB.Close()

			// Verify that only expected tables exist
			rows, err := exportedDB.QueryContext(ctx, "SELECT name FROM sqlite_schema WHERE type = 'table' AND name != 'sqlite_stat1'")
			if err != nil {
				t.Fatalf("Failed to query tables: %v", err)
			}
			defer rows.Close()

			var actualTables []string
			for rows.Next() {
				var tableName string
				if err := rows.Scan(&tableName); err != nil {
					t.Fatalf("Failed to scan table name: %v", err)
				}
				actualTables = append(actualTables, tableName)
			}

			// Check that actual tables match expected tables
			if len(actualTables) != len(tt.expectedTables) {
				t.Errorf("Table count mismatch: got %d tables %v, want %d tables %v", len(actualTables), actualTables, len(tt.expectedTables), tt.expectedTables)
			}

			expectedTableSet := make(map[string]bool)
			for _, table := range tt.expectedTables {
				expectedTableSet[table] = true
			}

			for _, table := range actualTables {
				if !expectedTableSet[table] {
					t.Errorf("Unexpected table found: %s", table)
				}
			}

			// Verify expected tables exist and have correct row counts
			for _, tableName := range tt.expectedTables {
				var count int
				query := "SELECT COUNT(*) FROM " + tableName
				err = exportedDB.QueryRowContext(ctx, query).Scan(&count)
				if err != nil {
					t.Errorf("Failed to query table %s: %v", tableName, err)
					continue
				}

				expectedCount, ok := tt.expectedCounts[tableName]
				if !ok {
					t.Errorf("Missing expected count for table %s", tableName)
					continue
				}

				if count != expectedCount {
					t.Errorf("Table %s: got %d rows, want %d rows", tableName, count, expectedCount)
				}
			}
		})
	}
}
