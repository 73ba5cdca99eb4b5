// Package cascade resolves the dependent select lists of the borrow form:
// country→state→city and genre→book.
package cascade

import (
	"context"
	"sync"

	"github.com/borrowdesk/borrowdesk/pkg/models"
)

// Backend is the subset of the library backend the resolver needs.
type Backend interface {
	Countries(ctx context.Context) ([]models.LookupOption, error)
	Genres(ctx context.Context) ([]models.LookupOption, error)
	StatesByCountry(ctx context.Context, countryID models.ID) ([]models.LookupOption, error)
	CitiesByState(ctx context.Context, stateID models.ID) ([]models.LookupOption, error)
	BooksByGenre(ctx context.Context, genreID models.ID) ([]models.LookupOption, error)
}

// Resolver fetches dependent option lists keyed by their parent selection.
// Lists are memoized per parent id for the life of the session, so reselecting
// the same parent never issues a second network call. A list is only valid
// for the parent id that produced it; callers replace their option list on
// every parent change.
type Resolver struct {
	backend Backend

	mu        sync.Mutex
	countries []models.LookupOption
	genres    []models.LookupOption
	states    map[models.ID][]models.LookupOption
	cities    map[models.ID][]models.LookupOption
	books     map[models.ID][]models.LookupOption
}

func NewResolver(backend Backend) *Resolver {
	return &Resolver{
		backend: backend,
		states:  map[models.ID][]models.LookupOption{},
		cities:  map[models.ID][]models.LookupOption{},
		books:   map[models.ID][]models.LookupOption{},
	}
}

func (r *Resolver) Countries(ctx context.Context) ([]models.LookupOption, error) {
	r.mu.Lock()
	cached := r.countries
	r.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	opts, err := r.backend.Countries(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.countries = opts
	r.mu.Unlock()
	return opts, nil
}

func (r *Resolver) Genres(ctx context.Context) ([]models.LookupOption, error) {
	r.mu.Lock()
	cached := r.genres
	r.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	opts, err := r.backend.Genres(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.genres = opts
	r.mu.Unlock()
	return opts, nil
}

func (r *Resolver) StatesByCountry(ctx context.Context, countryID models.ID) ([]models.LookupOption, error) {
	return r.dependent(ctx, r.states, countryID, r.backend.StatesByCountry)
}

func (r *Resolver) CitiesByState(ctx context.Context, stateID models.ID) ([]models.LookupOption, error) {
	return r.dependent(ctx, r.cities, stateID, r.backend.CitiesByState)
}

func (r *Resolver) BooksByGenre(ctx context.Context, genreID models.ID) ([]models.LookupOption, error) {
	return r.dependent(ctx, r.books, genreID, r.backend.BooksByGenre)
}

func (r *Resolver) dependent(
	ctx context.Context,
	memo map[models.ID][]models.LookupOption,
	parentID models.ID,
	fetch func(context.Context, models.ID) ([]models.LookupOption, error),
) ([]models.LookupOption, error) {
	r.mu.Lock()
	cached, ok := memo[parentID]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	opts, err := fetch(ctx, parentID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	memo[parentID] = opts
	r.mu.Unlock()
	return opts, nil
}
