package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/logging"
)

// AddIndexes adds performance-critical indexes that AutoMigrate does not
// cover.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Board queries filter by status and sort by due date.
		{"tasks", "idx_tasks_status_due", "status, due_date"},
		{"task_instances", "idx_instances_status_due", "status, due_date"},

		// The regeneration sweep scans completed instances per template.
		{"task_instances", "idx_instances_recurring_status", "recurring_task_id, status"},

		// Activity timeline is queried per entity, newest first.
		{"activity_entries", "idx_activity_entity_created", "entity_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		logging.Logger.WithField("index", idx.name).Info("created index")
	}

	return nil
}
