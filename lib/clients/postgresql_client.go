package clients

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"qualityhome/lib/config"
	"qualityhome/lib/constants"
)

// NewPostgresSQLClient opens a PostgreSQL pool sized for a Lambda container and pings it
func NewPostgresSQLClient(db config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode,
	)

	conn, err := sql.Open(constants.DRIVER_NAME, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database %s:%s: %w", db.Host, db.Port, err)
	}

	return conn, nil
}
