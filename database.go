package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/microsoft/go-mssqldb"
)

// MSSQLExecutor runs generated SQL against a SQL Server instance. It is
// only reached when safe mode is off and execution was requested; the
// generation path never touches it.
type MSSQLExecutor struct {
	cfg SQLServerConfig
	db  *sql.DB
}

func NewMSSQLExecutor(cfg SQLServerConfig) SQLExecutor {
	return &MSSQLExecutor{cfg: cfg}
}

func (e *MSSQLExecutor) Connect(ctx context.Context) error {
	slog.Debug("connecting to sql server", "server", e.cfg.Server, "database", e.cfg.Database)

	db, err := sql.Open("sqlserver", e.cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping %s/%s: %w", e.cfg.Server, e.cfg.Database, err)
	}

	e.db = db
	slog.Info("connected to sql server", "server", e.cfg.Server, "database", e.cfg.Database)
	return nil
}

func (e *MSSQLExecutor) Exec(ctx context.Context, statement string) error {
	if e.db == nil {
		return fmt.Errorf("executor is not connected")
	}
	if _, err := e.db.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("failed to execute statement on %s/%s: %w", e.cfg.Server, e.cfg.Database, err)
	}
	return nil
}

func (e *MSSQLExecutor) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}
