package repository

import (
	"fmt"
	"time"

	"github.com/Advansoftware/FinWise-sub002/internal/database"
	"github.com/Advansoftware/FinWise-sub002/internal/models"
)

// ActivityRepository handles database operations for the family activity log
type ActivityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts an activity entry, stamping it server-side. Entries are
// never updated or deleted except by family deletion
func (r *ActivityRepository) Append(item *models.FamilyActivityItem) error {
	item.CreatedAt = time.Now().UTC()

	query := `INSERT INTO family_activity (family_id, type, member_id, member_name,
		description, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	id, err := r.db.ExecReturningID(query,
		item.FamilyID, item.Type, item.MemberID, item.MemberName,
		item.Description, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	item.ID = id
	return nil
}

// GetByFamily lists a family's activity newest-first, capped at limit
func (r *ActivityRepository) GetByFamily(familyID int64, limit int) ([]models.FamilyActivityItem, error) {
	query := `SELECT id, family_id, type, member_id, member_name, description, created_at
		FROM family_activity WHERE family_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.Query(query, familyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var items []models.FamilyActivityItem
	for rows.Next() {
		var item models.FamilyActivityItem
		if err := rows.Scan(&item.ID, &item.FamilyID, &item.Type, &item.MemberID,
			&item.MemberName, &item.Description, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
