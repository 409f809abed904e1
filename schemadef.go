// Package schemadef plans dialect-correct DDL from baseline and current
// snapshots of database objects and optionally applies it.
package schemadef

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wanghche/schemadef/database"
	"github.com/wanghche/schemadef/database/mysql"
	"github.com/wanghche/schemadef/database/postgres"
)

type Options struct {
	PlanFile string
	DryRun   bool
	Apply    bool
	Config   database.Config
}

// Run loads the plan file, prints the planned DDL, and applies it when
// requested.
func Run(options *Options) error {
	content, err := os.ReadFile(options.PlanFile)
	if err != nil {
		return fmt.Errorf("read plan file: %w", err)
	}
	plan, err := ParsePlan(content)
	if err != nil {
		return err
	}
	c, err := plan.build()
	if err != nil {
		return err
	}
	ddls, err := c.Statements()
	if err != nil {
		return err
	}

	logger := database.StdoutLogger{}
	if len(ddls) == 0 {
		logger.Println("-- Nothing is modified --")
		return nil
	}
	if options.DryRun || !options.Apply {
		showDDLs(logger, ddls)
		return nil
	}

	db, err := openDatabase(plan.Dialect, options.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunDDLs(db, ddls, logger); err != nil {
		return err
	}
	// The baseline advances only once the whole script applied.
	c.Commit()
	return nil
}

func openDatabase(dialect string, config database.Config) (database.Database, error) {
	switch dialect {
	case "mysql":
		if config.Port == 0 {
			config.Port = 3306
		}
		return mysql.NewDatabase(config)
	case "postgres":
		if config.Port == 0 {
			config.Port = 5432
		}
		return postgres.NewDatabase(config)
	}
	return nil, fmt.Errorf("unsupported dialect %q", dialect)
}

func showDDLs(logger database.Logger, ddls []string) {
	slog.Debug("showing planned DDLs", "count", len(ddls))
	logger.Println("-- dry run --")
	for _, ddl := range ddls {
		logger.Println(ddl)
	}
}
