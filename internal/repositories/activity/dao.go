package activity

import (
	"database/sql"

	"github.com/Ramsey-B/laurel/pkg/models"
)

const activitiesTable = "activities"

// ActivityRow represents the database row for an activity
type ActivityRow struct {
	ID        sql.NullInt64  `db:"id"`
	Name      sql.NullString `db:"name"`
	ParentID  sql.NullInt64  `db:"parent_id"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

// ToActivity converts a database row to a domain model
func ToActivity(row *ActivityRow) *models.Activity {
	activity := &models.Activity{
		ID:        row.ID.Int64,
		Name:      row.Name.String,
		CreatedAt: row.CreatedAt.Time,
	}
	if row.ParentID.Valid {
		parentID := row.ParentID.Int64
		activity.ParentID = &parentID
	}
	return activity
}
