package cascade

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the cascade lookup routes used to populate the
// borrow form selects.
func RegisterRoutes(e *echo.Echo, resolver *Resolver) {
	h := &handler{resolver: resolver}

	g := e.Group("/cascade")
	g.GET("/countries", h.countries)
	g.GET("/genres", h.genres)
	g.GET("/states/:countryID", h.states)
	g.GET("/cities/:stateID", h.cities)
	g.GET("/books/:genreID", h.books)
}
