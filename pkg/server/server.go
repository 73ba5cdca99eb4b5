package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/borrowdesk/borrowdesk/pkg/binder"
	"github.com/borrowdesk/borrowdesk/pkg/borrows"
	"github.com/borrowdesk/borrowdesk/pkg/cascade"
	"github.com/borrowdesk/borrowdesk/pkg/config"
	"github.com/borrowdesk/borrowdesk/pkg/drafts"
	"github.com/borrowdesk/borrowdesk/pkg/errcodes"
	"github.com/borrowdesk/borrowdesk/pkg/libraryapi"
	"github.com/borrowdesk/borrowdesk/pkg/notify"
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
)

func New(cfg *config.Config, client *libraryapi.Client, store *session.Store) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	toaster := notify.New(store)
	resolver := cascade.NewResolver(client)
	borrowService := borrows.NewService(client, store, toaster, cfg.DefaultPageSize)
	draftService := drafts.NewService(client, resolver, store, toaster, cfg.MaxUploadBytes)

	borrows.RegisterRoutes(e, borrowService, store)
	drafts.RegisterRoutes(e, draftService, cfg.MaxUploadBytes)
	cascade.RegisterRoutes(e, resolver)

	e.GET("/notifications", notificationsHandler(store))

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// notificationsHandler drains queued toast notifications for the browser.
func notificationsHandler(store *session.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		notifications := store.DrainNotifications()
		if notifications == nil {
			notifications = []session.Notification{}
		}
		resp := struct {
			Notifications []session.Notification `json:"notifications"`
		}{notifications}
		return errors.WithStack(c.JSON(http.StatusOK, resp))
	}
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
