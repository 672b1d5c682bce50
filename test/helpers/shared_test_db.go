package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/database"
)

// SharedTestDB is the journal database shared by the BDD suite
var SharedTestDB *gorm.DB

// InitializeSharedTestDB creates and migrates the shared test database
// Called once before the suite runs
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables clears journal tables between scenarios
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	// children first
	for _, table := range []string{"match_logs", "matches"} {
		if err := SharedTestDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// CloseSharedTestDB closes the shared database connection
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	err := database.Close(SharedTestDB)
	SharedTestDB = nil
	return err
}
