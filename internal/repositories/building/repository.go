package building

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// BuildingRepository defines the interface for building data access
type BuildingRepository interface {
	Create(ctx context.Context, building *models.Building) (*models.Building, error)
	GetByID(ctx context.Context, id int64) (*models.Building, error)
}

// Repository implements BuildingRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new building repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new building and returns it with its generated id
func (r *Repository) Create(ctx context.Context, building *models.Building) (*models.Building, error) {
	ctx, span := tracing.StartSpan(ctx, "BuildingRepository.Create")
	defer span.End()

	ib := database.NewInsertBuilder()
	ib.InsertInto(buildingsTable)
	ib.Cols("address", "latitude", "longitude")
	ib.Values(building.Address, building.Latitude, building.Longitude)
	ib.Returning("id", "created_at")

	query, args := ib.Build()

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&building.ID, &building.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create building")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create building")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":      building.ID,
		"address": building.Address,
	}).Info("created building")

	return building, nil
}

// GetByID retrieves a building by id. Returns nil when no building exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Building, error) {
	ctx, span := tracing.StartSpan(ctx, "BuildingRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "address", "latitude", "longitude", "created_at")
	sb.From(buildingsTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var row BuildingRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get building")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get building")
	}

	return ToBuilding(&row), nil
}
