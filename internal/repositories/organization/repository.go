package organization

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/geo"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) (*models.Organization, error)
	GetByID(ctx context.Context, id int64) (*models.OrganizationWithAddress, error)
	GetByName(ctx context.Context, name string) (*models.OrganizationWithAddress, error)
	ListByBuildingID(ctx context.Context, buildingID int64) ([]*models.OrganizationWithAddress, error)
	ListByActivityName(ctx context.Context, activityName string) ([]*models.OrganizationWithAddress, error)
	ListWithinBounds(ctx context.Context, box geo.BoundingBox) ([]*models.OrganizationWithAddress, error)
}

// Repository implements OrganizationRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new organization repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new organization and returns it with its generated id
func (r *Repository) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationRepository.Create")
	defer span.End()

	ib := database.NewInsertBuilder()
	ib.InsertInto(organizationsTable)
	ib.Cols("name", "phone_numbers", "building_id")
	ib.Values(org.Name, database.JSONB[[]string]{Data: org.PhoneNumbers}, org.BuildingID)
	ib.Returning("id", "created_at")

	query, args := ib.Build()

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&org.ID, &org.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create organization")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create organization")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":   org.ID,
		"name": org.Name,
	}).Info("created organization")

	return org, nil
}

// GetByID retrieves an organization with its building address. Returns nil when
// no organization exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.OrganizationWithAddress, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationRepository.GetByID")
	defer span.End()

	sb := r.selectJoined()
	sb.Where(sb.Equal("o.id", id))

	query, args := sb.Build()

	var row OrganizationBuildingRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get organization")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get organization")
	}

	return ToOrganizationWithAddress(&row), nil
}

// GetByName retrieves the lowest-id organization matching the given name.
// Returns nil when no organization matches.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.OrganizationWithAddress, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationRepository.GetByName")
	defer span.End()

	sb := r.selectJoined()
	sb.Where(sb.Equal("o.name", name))
	sb.OrderBy("o.id").Asc()
	sb.Limit(1)

	query, args := sb.Build()

	var row OrganizationBuildingRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get organization by name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get organization")
	}

	return ToOrganizationWithAddress(&row), nil
}

// ListByBuildingID retrieves all organizations located in a building
func (r *Repository) ListByBuildingID(ctx context.Context, buildingID int64) ([]*models.OrganizationWithAddress, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationRepository.ListByBuildingID")
	defer span.End()

	sb := r.selectJoined()
	sb.Where(sb.Equal("o.building_id", buildingID))
	sb.OrderBy("o.id").Asc()

	query, args := sb.Build()

	var rows []OrganizationBuildingRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list organizations by building")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list organizations")
	}

	return ToOrganizationsWithAddress(rows), nil
}

// ListByActivityName retrieves all organizations associated with the exact
// activity name. Descendant activities are not expanded.
func (r *Repository) ListByActivityName(ctx context.Context, activityName string) ([]*models.OrganizationWithAddress, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationRepository.ListByActivityName")
	defer span.End()

	sb := r.selectJoined()
	sb.Join("organization_activities oa", "oa.organization_id = o.id")
	sb.Join("activities a", "a.id = oa.activity_id")
	sb.Where(sb.Equal("a.name", activityName))
	sb.OrderBy("o.id").Asc()

	query, args := sb.Build()

	var rows []OrganizationBuildingRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list organizations by activity")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list organizations")
	}

	return ToOrganizationsWithAddress(rows), nil
}

// ListWithinBounds retrieves all organizations whose building falls inside the
// bounding box. Bounds are inclusive on all four edges.
func (r *Repository) ListWithinBounds(ctx context.Context, box geo.BoundingBox) ([]*models.OrganizationWithAddress, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationRepository.ListWithinBounds")
	defer span.End()

	sb := r.selectJoined()
	sb.Where(
		sb.Between("b.latitude", box.LatMin, box.LatMax),
		sb.Between("b.longitude", box.LonMin, box.LonMax),
	)
	sb.OrderBy("o.id").Asc()

	query, args := sb.Build()

	var rows []OrganizationBuildingRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list organizations within bounds")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list organizations")
	}

	return ToOrganizationsWithAddress(rows), nil
}

func (r *Repository) selectJoined() *database.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select("o.id", "o.name", "o.phone_numbers", "o.building_id", "o.created_at", "b.address")
	sb.From(organizationsTable + " o")
	sb.Join("buildings b", "b.id = o.building_id")
	return sb
}
