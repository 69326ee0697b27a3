package db

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Open connects to the SQLite file at path. A single connection is kept so
// writes, including progress appends, are applied in one total order.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	for _, pragma := range []string{`PRAGMA foreign_keys = ON;`, `PRAGMA busy_timeout = 5000;`} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	logrus.WithField("path", path).Debug("opened database")
	return db, nil
}
