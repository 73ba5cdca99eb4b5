package cascade

import (
	"context"
	"testing"

	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	countryCalls int
	genreCalls   int
	stateCalls   map[models.ID]int
	cityCalls    map[models.ID]int
	bookCalls    map[models.ID]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stateCalls: map[models.ID]int{},
		cityCalls:  map[models.ID]int{},
		bookCalls:  map[models.ID]int{},
	}
}

func (f *fakeBackend) Countries(_ context.Context) ([]models.LookupOption, error) {
	f.countryCalls++
	return []models.LookupOption{{ID: 1, Name: "India"}}, nil
}

func (f *fakeBackend) Genres(_ context.Context) ([]models.LookupOption, error) {
	f.genreCalls++
	return []models.LookupOption{{ID: 1, Name: "Fantasy"}}, nil
}

func (f *fakeBackend) StatesByCountry(_ context.Context, countryID models.ID) ([]models.LookupOption, error) {
	f.stateCalls[countryID]++
	return []models.LookupOption{{ID: countryID * 10, Name: "State of " + countryID.String()}}, nil
}

func (f *fakeBackend) CitiesByState(_ context.Context, stateID models.ID) ([]models.LookupOption, error) {
	f.cityCalls[stateID]++
	return []models.LookupOption{{ID: stateID * 10, Name: "City of " + stateID.String()}}, nil
}

func (f *fakeBackend) BooksByGenre(_ context.Context, genreID models.ID) ([]models.LookupOption, error) {
	f.bookCalls[genreID]++
	return []models.LookupOption{{ID: genreID * 10, Name: "Book of " + genreID.String(), AvailableCopies: 3}}, nil
}

func TestResolverMemoizesRootLists(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	resolver := NewResolver(backend)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		countries, err := resolver.Countries(ctx)
		require.NoError(t, err)
		require.Len(t, countries, 1)

		genres, err := resolver.Genres(ctx)
		require.NoError(t, err)
		require.Len(t, genres, 1)
	}

	assert.Equal(t, 1, backend.countryCalls)
	assert.Equal(t, 1, backend.genreCalls)
}

func TestResolverDoesNotRefetchForUnchangedParent(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	resolver := NewResolver(backend)
	ctx := context.Background()

	first, err := resolver.StatesByCountry(ctx, 5)
	require.NoError(t, err)

	second, err := resolver.StatesByCountry(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.stateCalls[5])
}

func TestResolverFetchesPerParent(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	resolver := NewResolver(backend)
	ctx := context.Background()

	statesA, err := resolver.StatesByCountry(ctx, 1)
	require.NoError(t, err)
	statesB, err := resolver.StatesByCountry(ctx, 2)
	require.NoError(t, err)

	assert.NotEqual(t, statesA, statesB)
	assert.Equal(t, 1, backend.stateCalls[1])
	assert.Equal(t, 1, backend.stateCalls[2])

	cities, err := resolver.CitiesByState(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, models.ID(100), cities[0].ID)

	books, err := resolver.BooksByGenre(ctx, 4)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 3, books[0].AvailableCopies)
}
