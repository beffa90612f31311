package organizationactivity

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// OrganizationActivityRepository defines the interface for the association
// between organizations and activities
type OrganizationActivityRepository interface {
	Link(ctx context.Context, organizationID, activityID int64) error
	ListActivitiesByOrganizationIDs(ctx context.Context, organizationIDs []int64) (map[int64][]*models.Activity, error)
}

// Repository implements OrganizationActivityRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new organization-activity repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Link associates an organization with an activity. Linking the same pair
// twice is a conflict, and linking to a missing organization or activity is a
// validation failure.
func (r *Repository) Link(ctx context.Context, organizationID, activityID int64) error {
	ctx, span := tracing.StartSpan(ctx, "OrganizationActivityRepository.Link")
	defer span.End()

	ib := database.NewInsertBuilder()
	ib.InsertInto(organizationActivitiesTable)
	ib.Cols("organization_id", "activity_id")
	ib.Values(organizationID, activityID)

	query, args := ib.Build()

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case pqUniqueViolation:
				return httperror.NewHTTPError(http.StatusConflict, "organization is already linked to this activity")
			case pqForeignKeyViolation:
				return httperror.NewHTTPError(http.StatusBadRequest, "organization or activity does not exist")
			}
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"organization_id": organizationID,
			"activity_id":     activityID,
		}).Error("Failed to link organization to activity")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to link organization to activity")
	}

	return nil
}

// ListActivitiesByOrganizationIDs retrieves the activities of every listed
// organization in one query, keyed by organization id. Activities within an
// organization keep association insertion order.
func (r *Repository) ListActivitiesByOrganizationIDs(ctx context.Context, organizationIDs []int64) (map[int64][]*models.Activity, error) {
	ctx, span := tracing.StartSpan(ctx, "OrganizationActivityRepository.ListActivitiesByOrganizationIDs")
	defer span.End()

	activities := make(map[int64][]*models.Activity, len(organizationIDs))
	if len(organizationIDs) == 0 {
		return activities, nil
	}

	sb := database.NewSelectBuilder()
	sb.Select("oa.organization_id", "a.id", "a.name", "a.parent_id", "a.created_at")
	sb.From(organizationActivitiesTable + " oa")
	sb.Join("activities a", "a.id = oa.activity_id")
	sb.Where(sb.In("oa.organization_id", sqlbuilder.Flatten(organizationIDs)...))
	sb.OrderBy("oa.organization_id", "oa.created_at", "a.id").Asc()

	query, args := sb.Build()

	var rows []OrganizationActivityRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list activities by organizations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list activities")
	}

	for i := range rows {
		orgID := rows[i].OrganizationID.Int64
		activities[orgID] = append(activities[orgID], ToActivity(&rows[i]))
	}

	return activities, nil
}
