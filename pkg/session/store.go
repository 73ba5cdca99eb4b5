// Package session holds the process-wide admin session state that the
// coordinators share: the current list page, the record selected for edit or
// delete, modal visibility, and the data-changed event bus that replaces the
// old implicit reload flag.
package session

import (
	"sync"

	"github.com/borrowdesk/borrowdesk/pkg/models"
)

// EventKind identifies a session event.
type EventKind string

// EventDataChanged is published after any mutation (create, update, delete)
// succeeds or a delete attempt finishes. The list coordinator subscribes to
// it and re-fetches its current page.
const EventDataChanged EventKind = "data_changed"

type Event struct {
	Kind EventKind
}

// ListPage is the current page of borrow records. It is replaced wholesale on
// each fetch, never patched in place.
type ListPage struct {
	Rows         []models.BorrowRow `json:"rows"`
	TotalRecords int                `json:"total_records"`
}

// Notification levels surfaced to the browser as toasts.
const (
	NotificationSuccess = "success"
	NotificationError   = "error"
)

type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Store is the shared session state container. Every field is accessed
// through named accessors so the coordinators only couple to the state they
// actually own.
type Store struct {
	mu sync.Mutex

	listPage           ListPage
	editingID          models.ID
	pendingDeleteID    models.ID
	formVisible        bool
	deleteModalVisible bool
	notifications      []Notification
	subscribers        []func(Event)
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers a callback invoked synchronously for every published
// event. Subscriptions last for the life of the process.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// PublishDataChanged notifies subscribers that backend data was mutated.
// Callbacks run outside the store lock so a subscriber may read or write the
// store.
func (s *Store) PublishDataChanged() {
	s.mu.Lock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: EventDataChanged})
	}
}

// ListPage returns the current page of records.
func (s *Store) ListPage() ListPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listPage
}

// SetListPage replaces the current page of records.
func (s *Store) SetListPage(page ListPage) {
	s.mu.Lock()
	s.listPage = page
	s.mu.Unlock()
}

// EditingID returns the id of the record open in the edit form, or zero when
// the form holds a new record.
func (s *Store) EditingID() models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

func (s *Store) SetEditingID(id models.ID) {
	s.mu.Lock()
	s.editingID = id
	s.mu.Unlock()
}

// PendingDeleteID returns the id awaiting delete confirmation.
func (s *Store) PendingDeleteID() models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDeleteID
}

func (s *Store) SetPendingDeleteID(id models.ID) {
	s.mu.Lock()
	s.pendingDeleteID = id
	s.mu.Unlock()
}

func (s *Store) FormVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formVisible
}

func (s *Store) SetFormVisible(visible bool) {
	s.mu.Lock()
	s.formVisible = visible
	s.mu.Unlock()
}

func (s *Store) DeleteModalVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteModalVisible
}

func (s *Store) SetDeleteModalVisible(visible bool) {
	s.mu.Lock()
	s.deleteModalVisible = visible
	s.mu.Unlock()
}

// PushNotification queues a toast for the browser to pick up.
func (s *Store) PushNotification(level, message string) {
	s.mu.Lock()
	s.notifications = append(s.notifications, Notification{Level: level, Message: message})
	s.mu.Unlock()
}

// DrainNotifications returns queued toasts and clears the queue.
func (s *Store) DrainNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.notifications
	s.notifications = nil
	return drained
}
