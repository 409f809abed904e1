package mysql

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"os"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/wanghche/schemadef/database"
)

type MysqlDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	if config.SslMode == "custom" {
		if err := registerTLSConfig(config.SslCa); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("mysql", mysqlBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &MysqlDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *MysqlDatabase) DB() *sql.DB {
	return d.db
}

func (d *MysqlDatabase) Close() error {
	return d.db.Close()
}

// Transactional is false: MySQL DDL statements commit implicitly, so a
// failed script leaves the earlier statements applied.
func (d *MysqlDatabase) Transactional() bool {
	return false
}

func mysqlBuildDSN(config database.Config) string {
	c := driver.NewConfig()
	c.User = config.User
	c.Passwd = config.Password
	c.DBName = config.DbName
	c.Timeout = 10 * time.Second
	if config.Socket != "" {
		c.Net = "unix"
		c.Addr = config.Socket
	} else {
		c.Net = "tcp"
		c.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	}

	switch config.SslMode {
	case "preferred", "":
		c.TLSConfig = "preferred"
	case "required":
		c.TLSConfig = "true"
	case "disabled":
		c.TLSConfig = "false"
	case "custom":
		c.TLSConfig = "custom"
	}

	return c.FormatDSN()
}

func registerTLSConfig(pemPath string) error {
	rootCertPool := x509.NewCertPool()
	pem, err := os.ReadFile(pemPath)
	if err != nil {
		return err
	}
	if ok := rootCertPool.AppendCertsFromPEM(pem); !ok {
		return fmt.Errorf("failed to append PEM from %s", pemPath)
	}
	return driver.RegisterTLSConfig("custom", &tls.Config{
		RootCAs: rootCertPool,
	})
}
