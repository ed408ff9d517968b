package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
)

// testDB is nil when TEST_DATABASE_URL is not set; tests then skip.
var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to connect to test database:", err)
			os.Exit(1)
		}
		if _, err := db.Exec(ctx, postgresql.Schema); err != nil {
			fmt.Fprintln(os.Stderr, "failed to apply schema:", err)
			os.Exit(1)
		}
		testDB = db
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}

	truncate := func() {
		_, err := testDB.Exec(context.Background(), "TRUNCATE TABLE attendances, leaves, holidays, employees CASCADE")
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(truncate)
	return testDB
}

func insertEmployee(t *testing.T, db *database.DB, code, name, department, status string) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO employees (employee_code, full_name, email, department, employment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		code, name, code+"@example.com", department, status,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertLeave(t *testing.T, db *database.DB, employeeID, date, status string) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO leaves (employee_id, leave_date, leave_type, status)
		VALUES ($1, $2, 'sick', $3)
		RETURNING id`,
		employeeID, date, status,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
