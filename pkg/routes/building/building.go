package building

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/laurel/internal/repositories/building"
	"github.com/Ramsey-B/laurel/internal/services/directory"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Register registers building routes
func Register(g *echo.Group) {
	g.POST("", Create)
	g.GET("/:id/organizations", ListOrganizations)
}

// Create creates a new building
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "building_handler.Create")
	defer span.End()

	var req models.CreateBuildingRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*building.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, &models.Building{
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return err
	}

	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err == nil {
		emitter.EmitBuildingCreated(ctx, result)
	}

	return c.JSON(http.StatusCreated, models.BuildingResponse{Building: *result})
}

// ListOrganizations returns every organization located in the building
func ListOrganizations(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "building_handler.ListOrganizations")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid building id")
	}

	ctx, svc, err := ectoinject.GetContext[*directory.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get directory service")
	}

	records, err := svc.ListByBuildingID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}
