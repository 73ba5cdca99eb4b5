// Package notify is the toast notification boundary. Coordinators report
// outcomes through a Notifier; the default implementation queues the message
// for the browser and mirrors it to the log.
package notify

import (
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/robinjoseph08/golib/logger"
)

type Notifier interface {
	Success(message string)
	Error(message string)
}

// Toaster queues notifications in the session store.
type Toaster struct {
	store *session.Store
	log   logger.Logger
}

func New(store *session.Store) *Toaster {
	return &Toaster{store: store, log: logger.New()}
}

func (t *Toaster) Success(message string) {
	t.store.PushNotification(session.NotificationSuccess, message)
	t.log.Info("toast", logger.Data{"level": session.NotificationSuccess, "message": message})
}

func (t *Toaster) Error(message string) {
	t.store.PushNotification(session.NotificationError, message)
	t.log.Info("toast", logger.Data{"level": session.NotificationError, "message": message})
}
