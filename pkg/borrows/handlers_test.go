package borrows

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/borrowdesk/borrowdesk/pkg/binder"
	"github.com/borrowdesk/borrowdesk/pkg/errcodes"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBorrowsTestContext(t *testing.T, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandlerList(t *testing.T) {
	t.Parallel()

	backend := &fakeListBackend{
		rows:  []models.BorrowRow{{MemberID: 1, Title: "Dune"}},
		total: 40,
	}
	store := session.NewStore()
	svc := NewService(backend, store, &fakeNotifier{}, 7)
	h := &handler{borrowService: svc, store: store}

	c, rr := newBorrowsTestContext(t, http.MethodGet, "/borrows?page=2&page_size=10&search=du")

	err := h.list(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := listResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.TotalRecords)
	assert.Equal(t, 4, resp.TotalPages)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Dune", resp.Rows[0].Title)

	// A fresh search lands on the first page regardless of the requested one,
	// but an explicit page in the same request wins once clamped.
	assert.Equal(t, 10, resp.Query.PageSize)
	assert.Equal(t, "du", resp.Query.Search)

	calls := backend.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "du", calls[0].Search)
}

func TestHandlerListRejectsUnknownSortColumn(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	svc := NewService(&fakeListBackend{}, store, &fakeNotifier{}, 7)
	h := &handler{borrowService: svc, store: store}

	c, _ := newBorrowsTestContext(t, http.MethodGet, "/borrows?sort=notacolumn")

	err := h.list(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
	assert.Contains(t, codeErr.Message, `"sort" must be one of the following`)
}

func TestHandlerRequestDeleteInvalidID(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	svc := NewService(&fakeListBackend{}, store, &fakeNotifier{}, 7)
	h := &handler{borrowService: svc, store: store}

	c, _ := newBorrowsTestContext(t, http.MethodPost, "/borrows/abc/delete")
	c.SetPath("/borrows/:id/delete")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.requestDelete(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "not_found", codeErr.Code)
}

func TestHandlerConfirmDeleteWithoutPending(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	svc := NewService(&fakeListBackend{}, store, &fakeNotifier{}, 7)
	h := &handler{borrowService: svc, store: store}

	c, _ := newBorrowsTestContext(t, http.MethodPost, "/borrows/delete/confirm")

	err := h.confirmDelete(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "not_found", codeErr.Code)
}

func TestHandlerDeleteFlow(t *testing.T) {
	t.Parallel()

	backend := &fakeListBackend{}
	store := session.NewStore()
	svc := NewService(backend, store, &fakeNotifier{}, 7)
	h := &handler{borrowService: svc, store: store}

	c, rr := newBorrowsTestContext(t, http.MethodPost, "/borrows/9/delete")
	c.SetPath("/borrows/:id/delete")
	c.SetParamNames("id")
	c.SetParamValues("9")

	err := h.requestDelete(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	state := deleteStateResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.True(t, state.ShowDeleteModal)
	assert.Equal(t, models.ID(9), state.PendingDeleteID)

	c, rr = newBorrowsTestContext(t, http.MethodPost, "/borrows/delete/confirm")
	err = h.confirmDelete(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	state = deleteStateResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.False(t, state.ShowDeleteModal)
	assert.True(t, state.PendingDeleteID.IsZero())

	assert.Equal(t, []models.ID{9}, backend.deleteIDs)
}
