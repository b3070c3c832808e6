package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"channel-insights/infrastructure/configuration"

	_ "github.com/microsoft/go-mssqldb"
)

// MSSQLDSN builds a sqlserver:// URL for Azure SQL / SQL Server
func MSSQLDSN(cfg configuration.Db) string {
	q := url.Values{}
	if cfg.Name != "" {
		q.Set("database", cfg.Name)
	}
	q.Set("encrypt", "true")
	// local containers ship a self-signed certificate
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		q.Set("TrustServerCertificate", "true")
	}

	u := &url.URL{Scheme: "sqlserver", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// NewMSSQLDB opens and pings a SQL Server connection pool
func NewMSSQLDB(cfg configuration.Db) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", MSSQLDSN(cfg))
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mssql: %w", err)
	}
	return db, nil
}
