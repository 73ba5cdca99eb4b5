package drafts

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the borrow form routes.
func RegisterRoutes(e *echo.Echo, draftService *Service, maxUploadBytes int64) {
	h := &handler{
		draftService:   draftService,
		maxUploadBytes: maxUploadBytes,
	}

	g := e.Group("/borrows/draft")
	g.POST("", h.openNew)
	g.GET("", h.current)
	g.PUT("", h.update)
	g.PUT("/country", h.changeCountry)
	g.PUT("/state", h.changeState)
	g.PUT("/genre", h.changeGenre)
	g.POST("/submit", h.submit)
	g.DELETE("", h.closeDraft)

	e.GET("/borrows/:id/draft", h.openEdit)
}
