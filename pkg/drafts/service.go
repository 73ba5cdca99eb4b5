// Package drafts owns the borrow form: a single in-progress record draft,
// its cascade option lists, validation, and multipart submission.
package drafts

import (
	"context"
	"sync"
	"time"

	"github.com/borrowdesk/borrowdesk/pkg/cascade"
	"github.com/borrowdesk/borrowdesk/pkg/errcodes"
	"github.com/borrowdesk/borrowdesk/pkg/libraryapi"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/borrowdesk/borrowdesk/pkg/notify"
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const dateLayout = "2006-01-02"

// Backend is the subset of the library backend the form flow needs.
type Backend interface {
	RetrieveBorrow(ctx context.Context, id models.ID) (*models.BorrowRecord, error)
	CreateBorrow(ctx context.Context, record *models.BorrowRecord, image *libraryapi.Image) error
	UpdateBorrow(ctx context.Context, id models.ID, record *models.BorrowRecord, image *libraryapi.Image) error
}

// Draft is the in-progress borrow record plus everything the form needs to
// render it: the cascade option lists and the field error map from the last
// validation.
type Draft struct {
	Record    models.BorrowRecord   `json:"record"`
	Countries []models.LookupOption `json:"countries"`
	States    []models.LookupOption `json:"states"`
	Cities    []models.LookupOption `json:"cities"`
	Genres    []models.LookupOption `json:"genres"`
	Books     []models.LookupOption `json:"books"`
	Errors    map[string]string     `json:"errors"`

	image *libraryapi.Image
}

// Service coordinates the borrow form draft. At most one draft is open at a
// time.
type Service struct {
	backend        Backend
	resolver       *cascade.Resolver
	store          *session.Store
	notifier       notify.Notifier
	maxUploadBytes int64
	log            logger.Logger

	mu    sync.Mutex
	draft *Draft
}

func NewService(backend Backend, resolver *cascade.Resolver, store *session.Store, notifier notify.Notifier, maxUploadBytes int64) *Service {
	return &Service{
		backend:        backend,
		resolver:       resolver,
		store:          store,
		notifier:       notifier,
		maxUploadBytes: maxUploadBytes,
		log:            logger.New(),
	}
}

// OpenNew starts a draft for a brand-new borrow record. The borrow date is
// seeded to today and the root option lists (countries, genres) are loaded.
func (s *Service) OpenNew(ctx context.Context) (Draft, error) {
	countries, err := s.resolver.Countries(ctx)
	if err != nil {
		s.notifier.Error("Failed to load the country list.")
		return Draft{}, err
	}
	genres, err := s.resolver.Genres(ctx)
	if err != nil {
		s.notifier.Error("Failed to load the genre list.")
		return Draft{}, err
	}

	s.mu.Lock()
	s.draft = &Draft{
		Record: models.BorrowRecord{
			BorrowDate: time.Now().Format(dateLayout),
			Status:     models.StatusBorrowed,
		},
		Countries: countries,
		Genres:    genres,
		Errors:    map[string]string{},
	}
	draft := *s.draft
	s.mu.Unlock()

	s.store.SetEditingID(0)
	s.store.SetFormVisible(true)
	return draft, nil
}

// OpenEdit starts a draft for an existing record. The dependent option lists
// are pre-seeded for the stored selections, in country→state, state→city,
// genre→book order, without clearing the stored ids.
func (s *Service) OpenEdit(ctx context.Context, id models.ID) (Draft, error) {
	record, err := s.backend.RetrieveBorrow(ctx, id)
	if err != nil {
		s.notifier.Error("Failed to load the record.")
		return Draft{}, err
	}

	countries, err := s.resolver.Countries(ctx)
	if err != nil {
		s.notifier.Error("Failed to load the country list.")
		return Draft{}, err
	}
	genres, err := s.resolver.Genres(ctx)
	if err != nil {
		s.notifier.Error("Failed to load the genre list.")
		return Draft{}, err
	}
	states, err := s.resolver.StatesByCountry(ctx, record.CountryID)
	if err != nil {
		s.notifier.Error("Failed to load the state list.")
		return Draft{}, err
	}
	cities, err := s.resolver.CitiesByState(ctx, record.StateID)
	if err != nil {
		s.notifier.Error("Failed to load the city list.")
		return Draft{}, err
	}
	books, err := s.resolver.BooksByGenre(ctx, record.GenreID)
	if err != nil {
		s.notifier.Error("Failed to load the book list.")
		return Draft{}, err
	}

	record.ReturnDate = NormalizeReturnDate(record.ReturnDate, time.Now())

	s.mu.Lock()
	s.draft = &Draft{
		Record:    *record,
		Countries: countries,
		States:    states,
		Cities:    cities,
		Genres:    genres,
		Books:     books,
		Errors:    map[string]string{},
	}
	draft := *s.draft
	s.mu.Unlock()

	s.store.SetEditingID(id)
	s.store.SetFormVisible(true)
	return draft, nil
}

// Current returns the open draft, if any.
func (s *Service) Current() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}, false
	}
	return *s.draft, true
}

// UpdateOptions carries scalar field updates for the draft. Nil fields are
// untouched.
type UpdateOptions struct {
	MemberName *string
	ContactNo  *string
	Email      *string
	Address    *string
	CityID     *models.ID
	BookID     *models.ID
	BorrowDate *string
	ReturnDate *string
	Status     *models.Status
}

// Update applies scalar field changes to the draft. City and book selections
// are rejected while their parent selection is empty, mirroring the disabled
// selects in the form.
func (s *Service) Update(opts UpdateOptions) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}, errcodes.NotFound("Borrow form draft")
	}

	record := &s.draft.Record
	if opts.CityID != nil && !opts.CityID.IsZero() && record.StateID.IsZero() {
		return Draft{}, errcodes.ValidationError("A state must be selected before choosing a city.")
	}
	if opts.BookID != nil && !opts.BookID.IsZero() && record.GenreID.IsZero() {
		return Draft{}, errcodes.ValidationError("A genre must be selected before choosing a book.")
	}

	if opts.MemberName != nil {
		record.MemberName = *opts.MemberName
	}
	if opts.ContactNo != nil {
		record.ContactNo = *opts.ContactNo
	}
	if opts.Email != nil {
		record.Email = *opts.Email
	}
	if opts.Address != nil {
		record.Address = *opts.Address
	}
	if opts.CityID != nil {
		record.CityID = *opts.CityID
	}
	if opts.BookID != nil {
		record.BookID = *opts.BookID
	}
	if opts.BorrowDate != nil {
		record.BorrowDate = *opts.BorrowDate
	}
	if opts.ReturnDate != nil {
		record.ReturnDate = *opts.ReturnDate
	}
	if opts.Status != nil {
		record.Status = *opts.Status
	}

	return *s.draft, nil
}

// ChangeCountry writes the new country id, clears the dependent state and
// city selections, and replaces the state option list.
func (s *Service) ChangeCountry(ctx context.Context, id models.ID) (Draft, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return Draft{}, errcodes.NotFound("Borrow form draft")
	}
	s.draft.Record.CountryID = id
	s.draft.Record.StateID = 0
	s.draft.Record.CityID = 0
	s.draft.States = nil
	s.draft.Cities = nil
	s.mu.Unlock()

	states, err := s.resolver.StatesByCountry(ctx, id)
	if err != nil {
		s.notifier.Error("Failed to load the state list.")
		return s.snapshot(), err
	}

	s.mu.Lock()
	s.draft.States = states
	draft := *s.draft
	s.mu.Unlock()
	return draft, nil
}

// ChangeState writes the new state id, clears the city selection, and
// replaces the city option list. The country selection is untouched.
func (s *Service) ChangeState(ctx context.Context, id models.ID) (Draft, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return Draft{}, errcodes.NotFound("Borrow form draft")
	}
	if s.draft.Record.CountryID.IsZero() {
		s.mu.Unlock()
		return Draft{}, errcodes.ValidationError("A country must be selected before choosing a state.")
	}
	s.draft.Record.StateID = id
	s.draft.Record.CityID = 0
	s.draft.Cities = nil
	s.mu.Unlock()

	cities, err := s.resolver.CitiesByState(ctx, id)
	if err != nil {
		s.notifier.Error("Failed to load the city list.")
		return s.snapshot(), err
	}

	s.mu.Lock()
	s.draft.Cities = cities
	draft := *s.draft
	s.mu.Unlock()
	return draft, nil
}

// ChangeGenre writes the new genre id, clears the book selection, and
// replaces the book option list.
func (s *Service) ChangeGenre(ctx context.Context, id models.ID) (Draft, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return Draft{}, errcodes.NotFound("Borrow form draft")
	}
	s.draft.Record.GenreID = id
	s.draft.Record.BookID = 0
	s.draft.Books = nil
	s.mu.Unlock()

	books, err := s.resolver.BooksByGenre(ctx, id)
	if err != nil {
		s.notifier.Error("Failed to load the book list.")
		return s.snapshot(), err
	}

	s.mu.Lock()
	s.draft.Books = books
	draft := *s.draft
	s.mu.Unlock()
	return draft, nil
}

// AttachImage stages an identity-proof upload on the draft. Type and size are
// checked during validation, not here, so a bad file surfaces as a field
// error instead of a failed request.
func (s *Service) AttachImage(filename, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return errcodes.NotFound("Borrow form draft")
	}
	s.draft.image = &libraryapi.Image{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
	return nil
}

// Validate runs every rule independently and records all violations in the
// draft's error map. It returns the map; an empty map means the draft may be
// submitted.
func (s *Service) Validate() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, errcodes.NotFound("Borrow form draft")
	}
	fieldErrs := validateRecord(&s.draft.Record, s.draft.image, s.maxUploadBytes)
	s.draft.Errors = fieldErrs
	return fieldErrs, nil
}

// ApplySubmission overwrites the draft's record with the full field snapshot
// posted by the form. The member id is kept from the draft itself so a create
// stays a create and an edit stays bound to the record it was opened for.
func (s *Service) ApplySubmission(record models.BorrowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return errcodes.NotFound("Borrow form draft")
	}
	record.MemberID = s.draft.Record.MemberID
	s.draft.Record = record
	return nil
}

// Submit validates the draft and sends it to the backend: insert when the
// member id is the new-record sentinel, update otherwise. Success publishes a
// data-changed event and closes the form; failure leaves the form open with
// the draft intact. Validation failures never reach the network.
func (s *Service) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return errcodes.NotFound("Borrow form draft")
	}
	fieldErrs := validateRecord(&s.draft.Record, s.draft.image, s.maxUploadBytes)
	s.draft.Errors = fieldErrs
	record := s.draft.Record
	image := s.draft.image
	s.mu.Unlock()

	if len(fieldErrs) > 0 {
		return errcodes.FieldValidationErrors(fieldErrs)
	}

	var err error
	if record.MemberID.IsZero() {
		err = s.backend.CreateBorrow(ctx, &record, image)
	} else {
		err = s.backend.UpdateBorrow(ctx, record.MemberID, &record, image)
	}
	if err != nil {
		s.log.Err(err).Error("borrow form submit error", logger.Data{"member_id": record.MemberID})
		s.notifier.Error("Failed to save the record.")
		return errors.WithStack(err)
	}

	s.notifier.Success("Record saved successfully!")
	s.Close()
	s.store.PublishDataChanged()
	return nil
}

// Close discards the draft and hides the form.
func (s *Service) Close() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()

	s.store.SetEditingID(0)
	s.store.SetFormVisible(false)
}

func (s *Service) snapshot() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return Draft{}
	}
	return *s.draft
}

// NormalizeReturnDate turns a fetched return date into the calendar-date
// string the form displays. An absent date defaults to today and an
// unparsable one is blanked. One day is added to a parsed date because the
// backend truncates it into the previous day when serializing without a
// timezone.
func NormalizeReturnDate(raw string, now time.Time) string {
	if raw == "" {
		return now.Format(dateLayout)
	}
	t, ok := parseBackendDate(raw)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(dateLayout)
}

func parseBackendDate(raw string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		dateLayout,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
