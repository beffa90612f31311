package seed

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/laurel/internal/services/seed"
	"github.com/Ramsey-B/laurel/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// Register registers the seed-data route
func Register(g *echo.Group) {
	g.POST("", Generate)
}

// Generate fills the directory with sample data
func Generate(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "seed_handler.Generate")
	defer span.End()

	ctx, generator, err := ectoinject.GetContext[*seed.DataGenerator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get data generator")
	}

	result, err := generator.Generate(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}
