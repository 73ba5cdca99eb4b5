package drafts

import (
	"context"
	"io"
	"net/http"

	"github.com/borrowdesk/borrowdesk/pkg/errcodes"
	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	draftService   *Service
	maxUploadBytes int64
}

func (h *handler) openNew(c echo.Context) error {
	ctx := c.Request().Context()

	draft, err := h.draftService.OpenNew(ctx)
	if err != nil {
		return errcodes.BackendUnavailable("Borrow form open")
	}

	return errors.WithStack(c.JSON(http.StatusCreated, draft))
}

func (h *handler) openEdit(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := models.ParseID(c.Param("id"))
	if err != nil || id.IsZero() {
		return errcodes.NotFound("Borrow record")
	}

	draft, err := h.draftService.OpenEdit(ctx, id)
	if err != nil {
		return errcodes.BackendUnavailable("Borrow record load")
	}

	return errors.WithStack(c.JSON(http.StatusOK, draft))
}

func (h *handler) current(c echo.Context) error {
	draft, ok := h.draftService.Current()
	if !ok {
		return errcodes.NotFound("Borrow form draft")
	}
	return errors.WithStack(c.JSON(http.StatusOK, draft))
}

func (h *handler) update(c echo.Context) error {
	params := UpdateDraftPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateOptions{
		MemberName: params.MemberName,
		ContactNo:  params.ContactNo,
		Email:      params.Email,
		Address:    params.Address,
		BorrowDate: params.BorrowDate,
		ReturnDate: params.ReturnDate,
	}
	if params.CityID != nil {
		id, err := models.ParseID(*params.CityID)
		if err != nil {
			return errcodes.ValidationTypeError(`"cityId" must be a number`)
		}
		opts.CityID = &id
	}
	if params.BookID != nil {
		id, err := models.ParseID(*params.BookID)
		if err != nil {
			return errcodes.ValidationTypeError(`"bookId" must be a number`)
		}
		opts.BookID = &id
	}
	if params.Status != nil {
		status := models.Status(*params.Status)
		opts.Status = &status
	}

	draft, err := h.draftService.Update(opts)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, draft))
}

func (h *handler) changeCountry(c echo.Context) error {
	return h.changeCascade(c, h.draftService.ChangeCountry, `"countryId" must be a number`, "State list load")
}

func (h *handler) changeState(c echo.Context) error {
	return h.changeCascade(c, h.draftService.ChangeState, `"stateId" must be a number`, "City list load")
}

func (h *handler) changeGenre(c echo.Context) error {
	return h.changeCascade(c, h.draftService.ChangeGenre, `"genreId" must be a number`, "Book list load")
}

func (h *handler) changeCascade(
	c echo.Context,
	change func(ctx context.Context, id models.ID) (Draft, error),
	typeErr string,
	action string,
) error {
	ctx := c.Request().Context()

	params := CascadeChangePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	id, err := models.ParseID(params.ID)
	if err != nil {
		return errcodes.ValidationTypeError(typeErr)
	}

	draft, err := change(ctx, id)
	if err != nil {
		var codeErr *errcodes.Error
		if errors.As(err, &codeErr) {
			return err
		}
		return errcodes.BackendUnavailable(action)
	}

	return errors.WithStack(c.JSON(http.StatusOK, draft))
}

func (h *handler) submit(c echo.Context) error {
	ctx := c.Request().Context()

	params := SubmitDraftPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	record, err := recordFromSubmission(params)
	if err != nil {
		return err
	}

	if err := h.draftService.ApplySubmission(record); err != nil {
		return err
	}

	if fh, ok := params.FormFiles["image"]; ok {
		f, err := fh.Open()
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()

		// Read one byte past the ceiling so an oversize file is detected
		// without buffering all of it.
		data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
		if err != nil {
			return errors.WithStack(err)
		}
		err = h.draftService.AttachImage(fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			return err
		}
	}

	if err := h.draftService.Submit(ctx); err != nil {
		var codeErr *errcodes.Error
		if errors.As(err, &codeErr) {
			return err
		}
		return errcodes.BackendUnavailable("Borrow record save")
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Record saved successfully!"}))
}

func (h *handler) closeDraft(c echo.Context) error {
	h.draftService.Close()
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Form closed."}))
}

func recordFromSubmission(params SubmitDraftPayload) (models.BorrowRecord, error) {
	record := models.BorrowRecord{
		MemberName:    params.MemberName,
		ContactNo:     params.ContactNo,
		Email:         params.Email,
		Address:       params.Address,
		IdentityProof: params.IdentityProof,
		BorrowDate:    params.BorrowDate,
		ReturnDate:    params.ReturnDate,
	}

	ids := []struct {
		raw    string
		target *models.ID
		field  string
	}{
		{params.MemberID, &record.MemberID, "memberId"},
		{params.CountryID, &record.CountryID, "countryId"},
		{params.StateID, &record.StateID, "stateId"},
		{params.CityID, &record.CityID, "cityId"},
		{params.GenreID, &record.GenreID, "genreId"},
		{params.BookID, &record.BookID, "bookId"},
	}
	for _, f := range ids {
		id, err := models.ParseID(f.raw)
		if err != nil {
			return models.BorrowRecord{}, errcodes.ValidationTypeError(`"` + f.field + `" must be a number`)
		}
		*f.target = id
	}

	record.Status = models.StatusBorrowed
	if params.Status == "0" {
		record.Status = models.StatusReturned
	}

	return record, nil
}
