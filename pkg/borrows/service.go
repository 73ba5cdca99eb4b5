// Package borrows owns the server-backed list of borrowed books: paging,
// sorting, searching, and the delete/return flow.
package borrows

import (
	"context"
	"sync"

	"github.com/borrowdesk/borrowdesk/pkg/libraryapi"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/borrowdesk/borrowdesk/pkg/notify"
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/logger"
)

// Sort directions accepted by the backend pagination endpoint.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultSortColumn is the initial sort of the borrow list.
const DefaultSortColumn = "borrowDate"

// Backend is the subset of the library backend the list and deletion flows
// need.
type Backend interface {
	ListBorrows(ctx context.Context, opts libraryapi.ListBorrowsOptions) ([]models.BorrowRow, int, error)
	DeleteBorrow(ctx context.Context, id models.ID) error
}

// Query is the canonical parameter set of the borrow list. Page is 1-based.
type Query struct {
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
	SortColumn    string `json:"sort_column"`
	SortDirection string `json:"sort_direction"`
	Search        string `json:"search"`
}

// Changes is a batch of parameter updates. Nil fields are untouched. A batch
// results in exactly one fetch. SortColumn carries toggle intent: naming the
// currently sorted column flips its direction, naming another column sorts it
// ascending.
type Changes struct {
	Page       *int
	PageSize   *int
	SortColumn *string
	Search     *string
}

// Service coordinates the borrow list state and the delete/return flow.
type Service struct {
	backend  Backend
	store    *session.Store
	notifier notify.Notifier
	log      logger.Logger

	mu    sync.Mutex
	query Query
	// seq tags each issued fetch; responses that are no longer the latest
	// issued fetch are discarded so a slow early response can't overwrite a
	// newer page.
	seq uint64
}

func NewService(backend Backend, store *session.Store, notifier notify.Notifier, defaultPageSize int) *Service {
	s := &Service{
		backend:  backend,
		store:    store,
		notifier: notifier,
		log:      logger.New(),
		query: Query{
			Page:          1,
			PageSize:      defaultPageSize,
			SortColumn:    DefaultSortColumn,
			SortDirection: SortAsc,
		},
	}

	// Re-fetch the current page whenever a mutation elsewhere reports that
	// backend data changed.
	store.Subscribe(func(e session.Event) {
		if e.Kind == session.EventDataChanged {
			_ = s.Refresh(context.Background())
		}
	})

	return s
}

// Query returns a snapshot of the current parameters.
func (s *Service) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// TotalPages derives the page count from the last fetched total and the
// current page size.
func (s *Service) TotalPages() int {
	total := s.store.ListPage().TotalRecords
	s.mu.Lock()
	pageSize := s.query.PageSize
	s.mu.Unlock()
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Apply merges a batch of parameter changes and issues exactly one fetch.
// Changing the search term or the page size resets the page to 1; an explicit
// page in the same batch wins, clamped to the valid range.
func (s *Service) Apply(ctx context.Context, changes Changes) error {
	s.mu.Lock()
	if changes.SortColumn != nil {
		if *changes.SortColumn == s.query.SortColumn {
			if s.query.SortDirection == SortAsc {
				s.query.SortDirection = SortDesc
			} else {
				s.query.SortDirection = SortAsc
			}
		} else {
			s.query.SortColumn = *changes.SortColumn
			s.query.SortDirection = SortAsc
		}
	}
	if changes.PageSize != nil && *changes.PageSize != s.query.PageSize {
		s.query.PageSize = *changes.PageSize
		s.query.Page = 1
	}
	if changes.Search != nil && *changes.Search != s.query.Search {
		s.query.Search = *changes.Search
		s.query.Page = 1
	}
	if changes.Page != nil {
		s.query.Page = s.clampPageLocked(*changes.Page)
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// SetPage moves to the given page, clamped to [1, TotalPages].
func (s *Service) SetPage(ctx context.Context, page int) error {
	return s.Apply(ctx, Changes{Page: &page})
}

// SetPageSize changes the page length and resets to the first page.
func (s *Service) SetPageSize(ctx context.Context, size int) error {
	return s.Apply(ctx, Changes{PageSize: &size})
}

// SetSort toggles direction when column is already the sort column and
// otherwise sorts the new column ascending.
func (s *Service) SetSort(ctx context.Context, column string) error {
	return s.Apply(ctx, Changes{SortColumn: &column})
}

// SetSearch replaces the search term and resets to the first page.
func (s *Service) SetSearch(ctx context.Context, term string) error {
	return s.Apply(ctx, Changes{Search: &term})
}

// Refresh fetches the page matching the current parameters and replaces the
// shared list page. A failed fetch keeps the previous page visible, logs the
// failure, and surfaces an error notification.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	query := s.query
	s.mu.Unlock()

	fetchID := uuid.NewString()
	log := s.log.ID(fetchID).Root(logger.Data{
		"page":      query.Page,
		"page_size": query.PageSize,
		"sort":      query.SortColumn,
		"dir":       query.SortDirection,
	})

	rows, total, err := s.backend.ListBorrows(ctx, libraryapi.ListBorrowsOptions{
		Page:          query.Page,
		PageSize:      query.PageSize,
		Search:        query.Search,
		SortColumn:    query.SortColumn,
		SortDirection: query.SortDirection,
	})
	if err != nil {
		log.Err(err).Error("borrow list fetch error")
		s.notifier.Error("Failed to load borrowed books.")
		return err
	}

	s.mu.Lock()
	stale := seq != s.seq
	s.mu.Unlock()
	if stale {
		log.Warn("discarding stale borrow list response")
		return nil
	}

	s.store.SetListPage(session.ListPage{Rows: rows, TotalRecords: total})
	return nil
}

// RequestDelete records the id pending deletion and opens the confirmation
// prompt.
func (s *Service) RequestDelete(id models.ID) {
	s.store.SetPendingDeleteID(id)
	s.store.SetDeleteModalVisible(true)
}

// CancelDelete closes the confirmation prompt without touching the backend.
func (s *Service) CancelDelete() {
	s.store.SetPendingDeleteID(0)
	s.store.SetDeleteModalVisible(false)
}

// ConfirmDelete executes the delete/return action for the pending record.
// Whatever the outcome, the prompt is closed, the pending id is cleared, and
// a data-changed event is published so the list re-fetches.
func (s *Service) ConfirmDelete(ctx context.Context) error {
	id := s.store.PendingDeleteID()

	defer func() {
		s.store.SetPendingDeleteID(0)
		s.store.SetDeleteModalVisible(false)
		s.store.PublishDataChanged()
	}()

	err := s.backend.DeleteBorrow(ctx, id)
	if err != nil {
		s.log.Err(err).Error("borrow delete error", logger.Data{"member_id": id})
		s.notifier.Error("Failed to delete the record.")
		return err
	}

	s.notifier.Success("Record deleted successfully")
	return nil
}

func (s *Service) clampPageLocked(page int) int {
	if page < 1 {
		return 1
	}
	total := s.store.ListPage().TotalRecords
	if s.query.PageSize > 0 && total > 0 {
		totalPages := (total + s.query.PageSize - 1) / s.query.PageSize
		if page > totalPages {
			return totalPages
		}
	}
	return page
}
