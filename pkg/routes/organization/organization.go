package organization

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/laurel/internal/repositories/building"
	"github.com/Ramsey-B/laurel/internal/repositories/organization"
	"github.com/Ramsey-B/laurel/internal/repositories/organizationactivity"
	"github.com/Ramsey-B/laurel/internal/services/directory"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = models.RegisterValidations(v)
	return v
}

// Register registers organization routes
func Register(g *echo.Group) {
	g.POST("", Create)
	g.GET("/search", Search)
	g.GET("/within-radius", WithinRadius)
	g.GET("/:id", Get)
	g.POST("/:id/activities/:activityID", LinkActivity)
}

// Create creates a new organization in an existing building
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "organization_handler.Create")
	defer span.End()

	var req models.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, buildings, err := ectoinject.GetContext[*building.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	bldg, err := buildings.GetByID(ctx, req.BuildingID)
	if err != nil {
		return err
	}
	if bldg == nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "building does not exist")
	}

	ctx, repo, err := ectoinject.GetContext[*organization.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, &models.Organization{
		Name:         req.Name,
		PhoneNumbers: req.PhoneNumbers,
		BuildingID:   req.BuildingID,
	})
	if err != nil {
		return err
	}

	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err == nil {
		emitter.EmitOrganizationCreated(ctx, result)
	}

	return c.JSON(http.StatusCreated, models.OrganizationResponse{Organization: *result})
}

// Get returns the denormalized record for a single organization
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "organization_handler.Get")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}

	ctx, svc, err := ectoinject.GetContext[*directory.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get directory service")
	}

	record, err := svc.GetOrganizationByID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// Search returns the first organization matching the name query parameter
func Search(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "organization_handler.Search")
	defer span.End()

	name := c.QueryParam("name")
	if name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx, svc, err := ectoinject.GetContext[*directory.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get directory service")
	}

	record, err := svc.GetOrganizationByName(ctx, name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

// WithinRadius returns every organization whose building lies within the given
// radius in meters around a point
func WithinRadius(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "organization_handler.WithinRadius")
	defer span.End()

	latitude, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid latitude")
	}
	longitude, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid longitude")
	}
	radius, err := strconv.ParseFloat(c.QueryParam("radius"), 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid radius")
	}

	ctx, svc, err := ectoinject.GetContext[*directory.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get directory service")
	}

	records, err := svc.ListWithinRadius(ctx, latitude, longitude, radius)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}

// LinkActivity associates an organization with an activity
func LinkActivity(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "organization_handler.LinkActivity")
	defer span.End()

	orgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}
	activityID, err := strconv.ParseInt(c.Param("activityID"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid activity id")
	}

	ctx, repo, err := ectoinject.GetContext[*organizationactivity.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if err := repo.Link(ctx, orgID, activityID); err != nil {
		return err
	}

	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err == nil {
		emitter.EmitOrganizationLinked(ctx, orgID, activityID)
	}

	return c.NoContent(http.StatusNoContent)
}
