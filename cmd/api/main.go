package main

import (
	"context"
	"net/http"

	"github.com/borrowdesk/borrowdesk/pkg/config"
	"github.com/borrowdesk/borrowdesk/pkg/libraryapi"
	"github.com/borrowdesk/borrowdesk/pkg/server"
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/borrowdesk/borrowdesk/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting borrowdesk", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	client := libraryapi.New(cfg.BackendBaseURL)
	store := session.NewStore()

	srv, err := server.New(cfg, client, store)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		log.Info("server started", logger.Data{"addr": srv.Addr, "backend": cfg.BackendBaseURL})
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")
}
