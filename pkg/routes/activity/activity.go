package activity

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/laurel/internal/repositories/activity"
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

// Register registers activity routes
func Register(g *echo.Group) {
	g.POST("", Create)
	g.GET("/:name/organizations", ListOrganizations)
}

// Create creates a new activity, optionally nested under a parent
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "activity_handler.Create")
	defer span.End()

	var req models.CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*activity.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, req)
	if err != nil {
		return err
	}

	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err == nil {
		emitter.EmitActivityCreated(ctx, result)
	}

	return c.JSON(http.StatusCreated, models.ActivityResponse{Activity: *result})
}

// ListOrganizations returns every organization associated with the named activity
func ListOrganizations(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "activity_handler.ListOrganizations")
	defer span.End()

	name := c.Param("name")
	if name == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "activity name is required")
	}

	ctx, svc, err := ectoinject.GetContext[*directory.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get directory service")
	}

	records, err := svc.ListByActivityName(ctx, name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}
