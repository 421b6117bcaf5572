// Package database owns the MySQL connection and the schema. The
// content store keeps one JSON document per question, so reads fetch
// whole rows and the hot queries are short point lookups plus the
// paginated feed; the pool is sized for that, not for long-running
// statements.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// dsn builds the MySQL connection string. parseTime maps DATETIME
// columns onto time.Time, and loc=UTC matches the UTC timestamps the
// repositories stamp into documents. An empty password drops the
// colon so local dev setups without one still connect.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}

// Open connects to MySQL, configures the pool and verifies the
// connection with a bounded ping so a down database fails startup
// fast instead of hanging.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	// Handlers cap each call at 5s, so a modest pool with recycled
	// connections covers the request volume; idle == open avoids
	// churn under the bursty feed reads.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
