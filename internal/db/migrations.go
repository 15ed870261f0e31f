package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

	// Registry table. plate_number is the canonical identifier (normalized
	// before every write) and the sole uniqueness enforcement point.
	`CREATE TABLE IF NOT EXISTS plates (
		plate_number    TEXT PRIMARY KEY,
		owner_name      TEXT,
		department      TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,

	// Audit log of recognition passes, matched or not. matched_plate is not a
	// foreign key: deleting a registry record must not erase history.
	`CREATE TABLE IF NOT EXISTS recognition_events (
		id              UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		status          TEXT NOT NULL,
		matched_plate   TEXT,
		candidates      JSONB NOT NULL DEFAULT '[]'::jsonb,
		snapshot_url    TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_recognition_events_created_at ON recognition_events(created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_recognition_events_matched_plate ON recognition_events(matched_plate) WHERE matched_plate IS NOT NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
