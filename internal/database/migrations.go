package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Work item indexes for board and backlog queries
		{"work_items", "idx_work_items_project_id", "project_id"},
		{"work_items", "idx_work_items_sprint_id", "sprint_id"},
		{"work_items", "idx_work_items_status", "status"},
		{"work_items", "idx_work_items_sprint_status_order", "sprint_id, status, item_order"},

		// Sprint indexes
		{"sprints", "idx_sprints_project_id", "project_id"},

		// Project members indexes
		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_id", "user_id"},

		// Effect indexes
		{"susaf_effects", "idx_susaf_effects_project_id", "project_id"},

		// Project invite code index
		{"projects", "idx_projects_invite_code", "invite_code"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		// Create index
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
