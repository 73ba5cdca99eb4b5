package borrows

import (
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the borrow list and deletion routes.
func RegisterRoutes(e *echo.Echo, borrowService *Service, store *session.Store) {
	h := &handler{
		borrowService: borrowService,
		store:         store,
	}

	g := e.Group("/borrows")
	g.GET("", h.list)
	g.POST("/:id/delete", h.requestDelete)
	g.POST("/delete/confirm", h.confirmDelete)
	g.DELETE("/delete", h.cancelDelete)
}
