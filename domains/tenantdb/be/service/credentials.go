package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TenantCredential is the least-privilege identity issued for a freshly
// provisioned database. It is returned once and never persisted here; storing
// it is the caller's responsibility.
type TenantCredential struct {
	Login            string
	Password         string
	DatabaseName     string
	ConnectionString string
}

// issueCredential creates a server-level login over the administrative
// connection, then a database user with the data-reader/data-writer roles over
// a connection rewritten to target the new database.
//
// The two executions are sequential and not covered by one transaction: a
// failure between them leaves an orphaned server login with no database user.
// Operators can list such orphans via sys.sql_logins entries without a matching
// sys.database_principals row; automatic rollback is intentionally out of scope.
func (s *Service) issueCredential(ctx context.Context, server ServerRef, databaseName string) (TenantCredential, error) {
	login := "login_" + newIdentifier()
	// The "Pw_" prefix keeps the generated password within the engine's
	// complexity policy (three character classes) without widening the
	// identifier-safe alphabet.
	password := "Pw_" + newIdentifier()

	createLogin := fmt.Sprintf("CREATE LOGIN [%s] WITH PASSWORD = '%s'", login, password)
	if err := s.sql.Exec(ctx, s.pctx.AdminConnString, createLogin); err != nil {
		return TenantCredential{}, fmt.Errorf("create login: %w", err)
	}
	s.logger.Info("created server login", zap.String("login", login))

	dbConnString := WithDatabase(s.pctx.AdminConnString, databaseName)
	statements := []string{
		fmt.Sprintf("CREATE USER [%s] FOR LOGIN [%s]", login, login),
		fmt.Sprintf("ALTER ROLE db_datareader ADD MEMBER [%s]", login),
		fmt.Sprintf("ALTER ROLE db_datawriter ADD MEMBER [%s]", login),
	}
	if err := s.sql.Exec(ctx, dbConnString, statements...); err != nil {
		return TenantCredential{}, fmt.Errorf("create database user for login %s: %w", login, err)
	}
	s.logger.Info("granted data reader/writer roles",
		zap.String("login", login),
		zap.String("database", databaseName),
	)

	return TenantCredential{
		Login:            login,
		Password:         password,
		DatabaseName:     databaseName,
		ConnectionString: BuildConnectionString(server.FQDN, databaseName, login, password),
	}, nil
}
