package database

import "database/sql"

// Migrate creates the schema when it does not exist yet. The DDL is
// kept portable between MySQL (production) and sqlite (tests): plain
// VARCHAR/DATETIME/BOOLEAN column types, no engine-specific clauses.
//
// The questions table stores one JSON document per question; status,
// moderated and created_at are denormalized copies of document fields
// used by list and stat queries.
func Migrate(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id VARCHAR(36) PRIMARY KEY,
            email VARCHAR(255) NOT NULL UNIQUE,
            password_hash VARCHAR(255) NOT NULL,
            full_name VARCHAR(255) NOT NULL,
            role VARCHAR(16) NOT NULL DEFAULT 'student',
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at DATETIME NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS questions (
            id VARCHAR(36) PRIMARY KEY,
            user_id VARCHAR(36) NOT NULL,
            status VARCHAR(16) NOT NULL DEFAULT 'pending',
            moderated BOOLEAN NOT NULL DEFAULT FALSE,
            created_at DATETIME NOT NULL,
            doc JSON NOT NULL
        )`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
