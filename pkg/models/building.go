package models

import "time"

// Building is a physical location housing zero or more organizations
type Building struct {
	ID        int64     `json:"id" db:"id"`
	Address   string    `json:"address" db:"address"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateBuildingRequest is the request body for creating a building
type CreateBuildingRequest struct {
	Address   string  `json:"address" validate:"required,min=5,max=150"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// BuildingResponse is the API response for building operations
type BuildingResponse struct {
	Building
}
