package organizationactivity

import (
	"database/sql"

	"github.com/Ramsey-B/laurel/pkg/models"
)

const organizationActivitiesTable = "organization_activities"

// OrganizationActivityRow is an activity row joined with the organization it
// belongs to
type OrganizationActivityRow struct {
	OrganizationID sql.NullInt64  `db:"organization_id"`
	ID             sql.NullInt64  `db:"id"`
	Name           sql.NullString `db:"name"`
	ParentID       sql.NullInt64  `db:"parent_id"`
	CreatedAt      sql.NullTime   `db:"created_at"`
}

// ToActivity converts a joined row to an activity domain model
func ToActivity(row *OrganizationActivityRow) *models.Activity {
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
