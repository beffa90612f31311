// Package directory implements the lookup and aggregation layer over the
// organization, building, and activity repositories.
package directory

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/internal/repositories/building"
	"github.com/Ramsey-B/laurel/internal/repositories/organization"
	"github.com/Ramsey-B/laurel/internal/repositories/organizationactivity"
	"github.com/Ramsey-B/laurel/pkg/geo"
	"github.com/Ramsey-B/laurel/pkg/metrics"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// DirectoryService defines the lookup operations over the directory
type DirectoryService interface {
	GetOrganizationByID(ctx context.Context, id int64) (*models.OrganizationRecord, error)
	GetOrganizationByName(ctx context.Context, name string) (*models.OrganizationRecord, error)
	ListByActivityName(ctx context.Context, activityName string) ([]*models.ActivityOrganizationRecord, error)
	ListByBuildingID(ctx context.Context, buildingID int64) ([]*models.OrganizationRecord, error)
	ListWithinRadius(ctx context.Context, latitude, longitude, radiusMeters float64) ([]*models.OrganizationRecord, error)
}

// Service implements DirectoryService
type Service struct {
	organizations organization.OrganizationRepository
	buildings     building.BuildingRepository
	associations  organizationactivity.OrganizationActivityRepository
	logger        ectologger.Logger
}

// NewService creates a new directory service
func NewService(
	organizations organization.OrganizationRepository,
	buildings building.BuildingRepository,
	associations organizationactivity.OrganizationActivityRepository,
	logger ectologger.Logger,
) *Service {
	return &Service{
		organizations: organizations,
		buildings:     buildings,
		associations:  associations,
		logger:        logger,
	}
}

// GetOrganizationByID returns the denormalized record for a single organization
func (s *Service) GetOrganizationByID(ctx context.Context, id int64) (*models.OrganizationRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DirectoryService.GetOrganizationByID")
	defer span.End()
	defer s.observe("by_id", time.Now())

	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_id", "error").Inc()
		return nil, err
	}
	if org == nil {
		metrics.LookupsTotal.WithLabelValues("by_id", "not_found").Inc()
		return nil, httperror.NewHTTPError(http.StatusNotFound, "organization not found")
	}

	records, err := s.assemble(ctx, []*models.OrganizationWithAddress{org})
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_id", "error").Inc()
		return nil, err
	}

	metrics.LookupsTotal.WithLabelValues("by_id", "found").Inc()
	return records[0], nil
}

// GetOrganizationByName returns the record for the first organization matching
// the given name
func (s *Service) GetOrganizationByName(ctx context.Context, name string) (*models.OrganizationRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DirectoryService.GetOrganizationByName")
	defer span.End()
	defer s.observe("by_name", time.Now())

	org, err := s.organizations.GetByName(ctx, name)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_name", "error").Inc()
		return nil, err
	}
	if org == nil {
		metrics.LookupsTotal.WithLabelValues("by_name", "not_found").Inc()
		return nil, httperror.NewHTTPError(http.StatusNotFound, "organization not found")
	}

	records, err := s.assemble(ctx, []*models.OrganizationWithAddress{org})
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_name", "error").Inc()
		return nil, err
	}

	metrics.LookupsTotal.WithLabelValues("by_name", "found").Inc()
	return records[0], nil
}

// ListByActivityName returns every organization associated with the exact
// activity name. The queried name is echoed on each record in place of the
// organization's full activity list.
func (s *Service) ListByActivityName(ctx context.Context, activityName string) ([]*models.ActivityOrganizationRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DirectoryService.ListByActivityName")
	defer span.End()
	defer s.observe("by_activity", time.Now())

	orgs, err := s.organizations.ListByActivityName(ctx, activityName)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_activity", "error").Inc()
		return nil, err
	}
	if len(orgs) == 0 {
		metrics.LookupsTotal.WithLabelValues("by_activity", "not_found").Inc()
		return nil, httperror.NewHTTPError(http.StatusNotFound, "no organizations found for this activity")
	}

	records := make([]*models.ActivityOrganizationRecord, len(orgs))
	for i, org := range orgs {
		records[i] = &models.ActivityOrganizationRecord{
			ID:           org.ID,
			CreatedAt:    models.FormatCreatedAt(org.CreatedAt),
			Name:         org.Name,
			PhoneNumbers: org.PhoneNumbers,
			Address:      org.Address,
			ActivityName: activityName,
		}
	}

	metrics.LookupsTotal.WithLabelValues("by_activity", "found").Inc()
	return records, nil
}

// ListByBuildingID returns every organization located in the building. A
// missing building and an empty building both yield not-found, with distinct
// messages.
func (s *Service) ListByBuildingID(ctx context.Context, buildingID int64) ([]*models.OrganizationRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DirectoryService.ListByBuildingID")
	defer span.End()
	defer s.observe("by_building", time.Now())

	bldg, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_building", "error").Inc()
		return nil, err
	}
	if bldg == nil {
		metrics.LookupsTotal.WithLabelValues("by_building", "not_found").Inc()
		return nil, httperror.NewHTTPError(http.StatusNotFound, "building not found")
	}

	orgs, err := s.organizations.ListByBuildingID(ctx, buildingID)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_building", "error").Inc()
		return nil, err
	}
	if len(orgs) == 0 {
		metrics.LookupsTotal.WithLabelValues("by_building", "not_found").Inc()
		return nil, httperror.NewHTTPError(http.StatusNotFound, "no organizations in building")
	}

	records, err := s.assemble(ctx, orgs)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_building", "error").Inc()
		return nil, err
	}

	metrics.LookupsTotal.WithLabelValues("by_building", "found").Inc()
	return records, nil
}

// ListWithinRadius returns every organization whose building lies inside the
// bounding box around the given point. The box edges are inclusive, so a
// building exactly on an edge is included.
func (s *Service) ListWithinRadius(ctx context.Context, latitude, longitude, radiusMeters float64) ([]*models.OrganizationRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DirectoryService.ListWithinRadius")
	defer span.End()
	defer s.observe("by_radius", time.Now())

	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		metrics.LookupsTotal.WithLabelValues("by_radius", "invalid").Inc()
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid coordinates")
	}
	if radiusMeters <= 0 {
		metrics.LookupsTotal.WithLabelValues("by_radius", "invalid").Inc()
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "radius must be positive")
	}

	box := geo.BoxAround(latitude, longitude, radiusMeters)

	orgs, err := s.organizations.ListWithinBounds(ctx, box)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_radius", "error").Inc()
		return nil, err
	}
	if len(orgs) == 0 {
		metrics.LookupsTotal.WithLabelValues("by_radius", "not_found").Inc()
		return nil, httperror.NewHTTPError(http.StatusNotFound, "no organizations found in this area")
	}

	records, err := s.assemble(ctx, orgs)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues("by_radius", "error").Inc()
		return nil, err
	}

	metrics.LookupsTotal.WithLabelValues("by_radius", "found").Inc()
	return records, nil
}

// assemble builds denormalized records for a batch of organizations: one
// activity query for the whole batch rather than one per organization.
func (s *Service) assemble(ctx context.Context, orgs []*models.OrganizationWithAddress) ([]*models.OrganizationRecord, error) {
	ids := make([]int64, len(orgs))
	for i, org := range orgs {
		ids[i] = org.ID
	}

	activitiesByOrg, err := s.associations.ListActivitiesByOrganizationIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]*models.OrganizationRecord, len(orgs))
	for i, org := range orgs {
		names := make([]string, 0, len(activitiesByOrg[org.ID]))
		for _, activity := range activitiesByOrg[org.ID] {
			names = append(names, activity.Name)
		}
		records[i] = &models.OrganizationRecord{
			ID:           org.ID,
			CreatedAt:    models.FormatCreatedAt(org.CreatedAt),
			Name:         org.Name,
			PhoneNumbers: org.PhoneNumbers,
			Address:      org.Address,
			Activities:   names,
		}
	}

	return records, nil
}

func (s *Service) observe(mode string, start time.Time) {
	metrics.LookupDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
