package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/fixtures"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

var truncateTables = []string{
	"payroll_snapshots",
	"installment_advances",
	"financial_transactions",
	"attendances",
	"employees",
}

// openTestDB connects to TEST_DATABASE_URL, applies the schema once and
// empties every table. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		ctx := context.Background()
		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn)
		if testDBErr != nil {
			return
		}

		schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init.up.sql"))
		if err != nil {
			testDBErr = fmt.Errorf("failed to read schema: %w", err)
			return
		}
		if _, err := testDB.Exec(ctx, string(schema)); err != nil {
			testDBErr = fmt.Errorf("failed to apply schema: %w", err)
		}
	})
	require.NoError(t, testDBErr)

	truncateAll(t)
	return testDB
}

func truncateAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	err := postgresql.WithTransaction(ctx, testDB, func(tx pgx.Tx) error {
		for _, table := range truncateTables {
			if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func seedEmployee(t *testing.T, db *database.DB, nationalID, first, last string) employee.Employee {
	t.Helper()

	emp, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		ID:                 newID(),
		NationalID:         nationalID,
		FirstName:          first,
		LastName:           last,
		PhoneNumber:        "5551234567",
		CompensationMode:   employee.CompensationMonthly,
		BaseAmount:         decimal.NewFromInt(3000),
		OvertimeRate:       employee.DefaultOvertimeRate,
		StandardDailyHours: employee.DefaultStandardDailyHours,
		HireDate:           fixtures.Day(2023, 1, 2),
		IsActive:           true,
	})
	require.NoError(t, err)
	return emp
}
