package provisioning

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
)

// MSSQLRunner executes privileged statements over short-lived connections.
// DDL for logins/users cannot be parameterized, so callers are expected to pass
// statements built from generated identifiers only.
type MSSQLRunner struct {
	logger *zap.Logger
}

// NewMSSQLRunner constructs an MSSQLRunner.
func NewMSSQLRunner(logger *zap.Logger) *MSSQLRunner {
	if logger == nil {
		panic("logger is required")
	}
	return &MSSQLRunner{logger: logger}
}

// Exec opens a connection for the given connection string, runs the statements
// in order and closes the connection. Execution stops on the first failure.
func (r *MSSQLRunner) Exec(ctx context.Context, connString string, statements ...string) error {
	db, err := sql.Open("sqlserver", connString)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer db.Close()

	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("execute statement: %w", err)
		}
	}
	r.logger.Debug("executed statements", zap.Int("count", len(statements)))
	return nil
}

var _ service.SQLRunner = (*MSSQLRunner)(nil)
