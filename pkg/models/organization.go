package models

import "time"

// TimestampFormat is how creation timestamps are rendered in response records
const TimestampFormat = "2006-01-02 15:04"

// Organization is a business entity located in exactly one building
type Organization struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	PhoneNumbers []string  `json:"phone_numbers" db:"phone_numbers"`
	BuildingID   int64     `json:"building_id" db:"building_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateOrganizationRequest is the request body for creating an organization
type CreateOrganizationRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=50"`
	PhoneNumbers []string `json:"phone_numbers" validate:"required,min=1,dive,dialphone"`
	BuildingID   int64    `json:"building_id" validate:"required"`
}

// OrganizationResponse is the API response for single organization operations
type OrganizationResponse struct {
	Organization
}

// OrganizationWithAddress is an organization joined with its building address
type OrganizationWithAddress struct {
	Organization
	Address string `json:"address" db:"address"`
}

// OrganizationRecord is the denormalized record returned by the lookup layer:
// the organization joined with its building address and the names of all its
// activities in association insertion order.
type OrganizationRecord struct {
	ID           int64    `json:"id"`
	CreatedAt    string   `json:"created_at"`
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phone_numbers"`
	Address      string   `json:"address"`
	Activities   []string `json:"activities"`
}

// ActivityOrganizationRecord is the denormalized record for by-activity-name
// lookups. The queried activity name is echoed back instead of the
// organization's full activity list.
type ActivityOrganizationRecord struct {
	ID           int64    `json:"id"`
	CreatedAt    string   `json:"created_at"`
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phone_numbers"`
	Address      string   `json:"address"`
	ActivityName string   `json:"activity_name"`
}

// FormatCreatedAt renders a creation timestamp the way response records expect it
func FormatCreatedAt(t time.Time) string {
	return t.Format(TimestampFormat)
}
