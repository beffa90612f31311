package organization

import (
	"database/sql"

	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/models"
)

const organizationsTable = "organizations"

// OrganizationRow represents the database row for an organization
type OrganizationRow struct {
	ID           sql.NullInt64            `db:"id"`
	Name         sql.NullString           `db:"name"`
	PhoneNumbers database.JSONB[[]string] `db:"phone_numbers"`
	BuildingID   sql.NullInt64            `db:"building_id"`
	CreatedAt    sql.NullTime             `db:"created_at"`
}

// OrganizationBuildingRow is an organization row joined with its building address
type OrganizationBuildingRow struct {
	OrganizationRow
	Address sql.NullString `db:"address"`
}

// ToOrganization converts a database row to a domain model
func ToOrganization(row *OrganizationRow) *models.Organization {
	return &models.Organization{
		ID:           row.ID.Int64,
		Name:         row.Name.String,
		PhoneNumbers: row.PhoneNumbers.GetValue(),
		BuildingID:   row.BuildingID.Int64,
		CreatedAt:    row.CreatedAt.Time,
	}
}

// ToOrganizationWithAddress converts a joined row to a domain model plus address
func ToOrganizationWithAddress(row *OrganizationBuildingRow) *models.OrganizationWithAddress {
	return &models.OrganizationWithAddress{
		Organization: *ToOrganization(&row.OrganizationRow),
		Address:      row.Address.String,
	}
}

// ToOrganizationsWithAddress converts a slice of joined rows
func ToOrganizationsWithAddress(rows []OrganizationBuildingRow) []*models.OrganizationWithAddress {
	organizations := make([]*models.OrganizationWithAddress, len(rows))
	for i, row := range rows {
		organizations[i] = ToOrganizationWithAddress(&row)
	}
	return organizations
}
