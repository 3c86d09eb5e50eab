package database // database opens and configures the MySQL connection pool

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/cinebook/movie-reservation/internal/config"
)

// Open builds the MySQL pool backing the reservation store and
// verifies connectivity before the server starts admitting bookings.
// parseTime is set so reservations.created_at scans into time.Time;
// the reservations.date DATE column is read back as a formatted string
// by the repositories and is unaffected. Everything runs in UTC so the
// calendar date in the uniqueness triple never shifts across
// connections.
func Open(cfg config.Config) (*sql.DB, error) {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Availability reads dominate the workload; the pool is tuned per
	// deployment through DB_MAX_OPEN_CONNS and friends.
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLife)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
