package cascade

import (
	"context"
	"net/http"

	"github.com/borrowdesk/borrowdesk/pkg/errcodes"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

type handler struct {
	resolver *Resolver
}

func (h *handler) countries(c echo.Context) error {
	return h.respondRoot(c, h.resolver.Countries, "Countries lookup")
}

func (h *handler) genres(c echo.Context) error {
	return h.respondRoot(c, h.resolver.Genres, "Genres lookup")
}

func (h *handler) states(c echo.Context) error {
	return h.respondDependent(c, "countryID", h.resolver.StatesByCountry, "States lookup")
}

func (h *handler) cities(c echo.Context) error {
	return h.respondDependent(c, "stateID", h.resolver.CitiesByState, "Cities lookup")
}

func (h *handler) books(c echo.Context) error {
	return h.respondDependent(c, "genreID", h.resolver.BooksByGenre, "Books lookup")
}

func (h *handler) respondRoot(c echo.Context, fetch func(context.Context) ([]models.LookupOption, error), action string) error {
	ctx := c.Request().Context()

	opts, err := fetch(ctx)
	if err != nil {
		logger.FromEchoContext(c).Err(err).Error("cascade lookup error")
		return errcodes.BackendUnavailable(action)
	}

	return errors.WithStack(c.JSON(http.StatusOK, opts))
}

func (h *handler) respondDependent(
	c echo.Context,
	param string,
	fetch func(context.Context, models.ID) ([]models.LookupOption, error),
	action string,
) error {
	ctx := c.Request().Context()

	id, err := models.ParseID(c.Param(param))
	if err != nil || id.IsZero() {
		return errcodes.NotFound("Lookup parent")
	}

	opts, err := fetch(ctx, id)
	if err != nil {
		logger.FromEchoContext(c).Err(err).Error("cascade lookup error")
		return errcodes.BackendUnavailable(action)
	}

	return errors.WithStack(c.JSON(http.StatusOK, opts))
}
