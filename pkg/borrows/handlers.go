package borrows

import (
	"net/http"

	"github.com/borrowdesk/borrowdesk/pkg/errcodes"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/borrowdesk/borrowdesk/pkg/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	borrowService *Service
	store         *session.Store
}

type listResponse struct {
	Rows         []models.BorrowRow `json:"rows"`
	TotalRecords int                `json:"total_records"`
	TotalPages   int                `json:"total_pages"`
	Query        Query              `json:"query"`
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBorrowsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err := h.borrowService.Apply(ctx, Changes{
		Page:       params.Page,
		PageSize:   params.PageSize,
		SortColumn: params.Sort,
		Search:     params.Search,
	})
	if err != nil {
		return errcodes.BackendUnavailable("Borrow list fetch")
	}

	page := h.store.ListPage()
	resp := listResponse{
		Rows:         page.Rows,
		TotalRecords: page.TotalRecords,
		TotalPages:   h.borrowService.TotalPages(),
		Query:        h.borrowService.Query(),
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

type deleteStateResponse struct {
	ShowDeleteModal bool      `json:"show_delete_modal"`
	PendingDeleteID models.ID `json:"pending_delete_id"`
}

func (h *handler) requestDelete(c echo.Context) error {
	id, err := models.ParseID(c.Param("id"))
	if err != nil || id.IsZero() {
		return errcodes.NotFound("Borrow record")
	}

	h.borrowService.RequestDelete(id)

	return errors.WithStack(c.JSON(http.StatusOK, h.deleteState()))
}

func (h *handler) confirmDelete(c echo.Context) error {
	ctx := c.Request().Context()

	if h.store.PendingDeleteID().IsZero() {
		return errcodes.NotFound("Pending deletion")
	}

	// Cleanup (modal closed, reload signalled) happens inside the service on
	// every path, so a backend failure still leaves the session consistent.
	if err := h.borrowService.ConfirmDelete(ctx); err != nil {
		return errcodes.BackendUnavailable("Record deletion")
	}

	return errors.WithStack(c.JSON(http.StatusOK, h.deleteState()))
}

func (h *handler) cancelDelete(c echo.Context) error {
	h.borrowService.CancelDelete()
	return errors.WithStack(c.JSON(http.StatusOK, h.deleteState()))
}

func (h *handler) deleteState() deleteStateResponse {
	return deleteStateResponse{
		ShowDeleteModal: h.store.DeleteModalVisible(),
		PendingDeleteID: h.store.PendingDeleteID(),
	}
}
