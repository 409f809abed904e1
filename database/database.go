// Package database holds the connection adapters and DDL application used
// when planned statements are executed against a live server.
package database

import (
	"database/sql"
	"fmt"
)

// Config is the connection configuration shared by the dialect adapters.
type Config struct {
	DbName   string
	User     string
	Password string
	Host     string
	Port     int
	Socket   string
	SslMode  string
	SslCa    string
}

// Database is an opened connection to one dialect.
type Database interface {
	DB() *sql.DB
	Close() error
	// Transactional reports whether DDL on this dialect can run inside a
	// transaction. PostgreSQL DDL is transactional; MySQL DDL implicitly
	// commits.
	Transactional() bool
}

// RunDDLs applies the statements in order. On a transactional database the
// whole script runs in one transaction and rolls back on the first failure.
// Otherwise statements apply one by one and application halts at the first
// failure, leaving the earlier statements committed.
func RunDDLs(d Database, ddls []string, logger Logger) error {
	logger.Println("-- Apply --")
	if d.Transactional() {
		return runDDLsTransaction(d, ddls, logger)
	}
	for _, ddl := range ddls {
		logger.Println(ddl)
		if _, err := d.DB().Exec(ddl); err != nil {
			return fmt.Errorf("apply %q: %w", ddl, err)
		}
	}
	return nil
}

func runDDLsTransaction(d Database, ddls []string, logger Logger) error {
	tx, err := d.DB().Begin()
	if err != nil {
		return err
	}
	for _, ddl := range ddls {
		logger.Println(ddl)
		if _, err := tx.Exec(ddl); err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return fmt.Errorf("apply %q: %v (rollback failed: %w)", ddl, err, rollbackErr)
			}
			return fmt.Errorf("apply %q: %w", ddl, err)
		}
	}
	return tx.Commit()
}
