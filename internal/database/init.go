package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/campaignbridge/campaignbridge/internal/database/schema"
)

// defaultPostTypes are the content types registered on a fresh install.
// Archive URLs stay empty until the operator points them at real listings.
var defaultPostTypes = []struct {
	Name  string
	Label string
}{
	{Name: "post", Label: "Posts"},
	{Name: "news", Label: "News"},
}

// InitializeDatabase creates all necessary database tables if they don't exist
func InitializeDatabase(db *sql.DB) error {
	for _, query := range schema.TableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	now := time.Now().UTC()
	for _, pt := range defaultPostTypes {
		_, err := db.Exec(`
			INSERT INTO post_types (name, label, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, pt.Name, pt.Label, now, now)
		if err != nil {
			return fmt.Errorf("failed to seed post type %s: %w", pt.Name, err)
		}
	}

	return nil
}
