package models

import "time"

// MaxActivityDepth is the deepest parent chain an activity may have: a root
// counts as depth 0, so the taxonomy holds at most 3 levels.
const MaxActivityDepth = 2

// Activity is a node in the business activity taxonomy
type Activity struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *int64    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateActivityRequest is the request body for creating an activity
type CreateActivityRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// ActivityResponse is the API response for activity operations
type ActivityResponse struct {
	Activity
}
