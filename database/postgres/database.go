package postgres

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
	"github.com/wanghche/schemadef/database"
)

type PostgresDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("postgres", postgresBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &PostgresDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *PostgresDatabase) DB() *sql.DB {
	return d.db
}

func (d *PostgresDatabase) Close() error {
	return d.db.Close()
}

// Transactional is true: PostgreSQL DDL runs inside a transaction, so a
// failed script rolls back as a whole.
func (d *PostgresDatabase) Transactional() bool {
	return true
}

func postgresBuildDSN(config database.Config) string {
	host := config.Host
	if config.Socket != "" {
		host = config.Socket
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", host, config.Port),
		Path:   "/" + config.DbName,
	}
	if config.User != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.User, config.Password)
		} else {
			u.User = url.User(config.User)
		}
	}

	values := url.Values{}
	sslMode := config.SslMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	values.Set("sslmode", sslMode)
	if config.SslCa != "" {
		values.Set("sslrootcert", config.SslCa)
	}
	u.RawQuery = values.Encode()

	return u.String()
}
