// database/migrate.go - Database Migration Runner
package database

import (
	"codeclash/models"
	"log"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.AdminUser{},
		&models.Challenge{},
		&models.Team{},
		&models.Participant{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes not covered by the model tags
func createIndexes() {
	db := GetDB()
	log.Println("Creating indexes...")

	// Challenge lookups
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_status ON challenges(status)")
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_challenges_access_code ON challenges(access_code)")

	// Team/participant grouping for the results screen
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_challenge ON teams(challenge_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_participants_team ON participants(team_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_participants_challenge ON participants(challenge_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_participants_locked ON participants(challenge_id, is_locked)")

	log.Println("✅ Indexes created successfully")
}
