package building

import (
	"database/sql"

	"github.com/Ramsey-B/laurel/pkg/models"
)

const buildingsTable = "buildings"

// BuildingRow represents the database row for a building
type BuildingRow struct {
	ID        sql.NullInt64   `db:"id"`
	Address   sql.NullString  `db:"address"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
	CreatedAt sql.NullTime    `db:"created_at"`
}

// ToBuilding converts a database row to a domain model
func ToBuilding(row *BuildingRow) *models.Building {
	return &models.Building{
		ID:        row.ID.Int64,
		Address:   row.Address.String,
		Latitude:  row.Latitude.Float64,
		Longitude: row.Longitude.Float64,
		CreatedAt: row.CreatedAt.Time,
	}
}
