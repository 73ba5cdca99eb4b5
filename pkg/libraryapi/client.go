// Package libraryapi is the HTTP client for the external library backend.
// All business logic (inventory, pricing, availability) lives behind these
// endpoints; this service only orchestrates calls against them.
package libraryapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Client talks to the library backend. Timeouts are left to the transport
// defaults and there is no retry; failed calls surface to the coordinators,
// which keep their previous state.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("library backend returned %d: %s", e.Code, e.Body)
}

// Image is an identity-proof upload forwarded to the backend as the binary
// part of the multipart body.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ListBorrowsOptions are the query parameters of the server-side pagination
// endpoint.
type ListBorrowsOptions struct {
	Page          int
	PageSize      int
	Search        string
	SortColumn    string
	SortDirection string
}

type listResponse struct {
	Data         []models.BorrowRow `json:"data"`
	TotalRecords int                `json:"totalRecords"`
}

// ListBorrows fetches one page of borrow records.
func (c *Client) ListBorrows(ctx context.Context, opts ListBorrowsOptions) ([]models.BorrowRow, int, error) {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(opts.Page))
	q.Set("pageSize", strconv.Itoa(opts.PageSize))
	q.Set("searchValue", opts.Search)
	q.Set("columnshort", opts.SortColumn)
	q.Set("dir", opts.SortDirection)

	resp := listResponse{}
	err := c.getJSON(ctx, "/LibraryManagement/ServerSidePagination?"+q.Encode(), &resp)
	if err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.TotalRecords, nil
}

// RetrieveBorrow fetches a single borrow record, used to seed the edit form.
func (c *Client) RetrieveBorrow(ctx context.Context, id models.ID) (*models.BorrowRecord, error) {
	record := &models.BorrowRecord{}
	err := c.getJSON(ctx, "/LibraryManagement/booksById/"+id.String(), record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreateBorrow inserts a new borrow record via the multipart insert endpoint.
func (c *Client) CreateBorrow(ctx context.Context, record *models.BorrowRecord, image *Image) error {
	return c.submitMultipart(ctx, http.MethodPost, "/LibraryManagement/BooksInsert", record, image)
}

// UpdateBorrow updates an existing borrow record.
func (c *Client) UpdateBorrow(ctx context.Context, id models.ID, record *models.BorrowRecord, image *Image) error {
	return c.submitMultipart(ctx, http.MethodPut, "/LibraryManagement/booksUpdate/"+id.String(), record, image)
}

// DeleteBorrow executes the delete/return action for a borrow record.
func (c *Client) DeleteBorrow(ctx context.Context, id models.ID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/LibraryManagement/BookingDelete/"+id.String(), nil)
	if err != nil {
		return errors.WithStack(err)
	}
	return c.doDiscard(req)
}

func (c *Client) submitMultipart(ctx context.Context, method, path string, record *models.BorrowRecord, image *Image) error {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{"memberId", record.MemberID.String()},
		{"memberName", record.MemberName},
		{"contactNo", record.ContactNo},
		{"identityProof", record.IdentityProof},
		{"address", record.Address},
		{"countryId", record.CountryID.String()},
		{"stateId", record.StateID.String()},
		{"cityId", record.CityID.String()},
		{"email", record.Email},
		{"borrowDate", record.BorrowDate},
		{"returnDate", record.ReturnDate},
		{"genreId", record.GenreID.String()},
		{"bookId", record.BookID.String()},
		{"status", strconv.Itoa(int(record.Status))},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return errors.WithStack(err)
		}
	}

	if image != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return errors.WithStack(err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return errors.WithStack(err)
		}
	}

	if err := w.Close(); err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.doDiscard(req)
}

// Cascade lookup endpoints. The backend uses entity-specific field names for
// each list, so every endpoint decodes through its own wire shape and maps
// into the shared LookupOption.

type countryOption struct {
	CountryID   models.ID `json:"countryId"`
	CountryName string    `json:"countryName"`
}

func (c *Client) Countries(ctx context.Context) ([]models.LookupOption, error) {
	raw := []countryOption{}
	if err := c.getJSON(ctx, "/Cascade/GetCountry", &raw); err != nil {
		return nil, err
	}
	opts := make([]models.LookupOption, 0, len(raw))
	for _, o := range raw {
		opts = append(opts, models.LookupOption{ID: o.CountryID, Name: o.CountryName})
	}
	return opts, nil
}

type stateOption struct {
	StateID   models.ID `json:"stateId"`
	StateName string    `json:"stateName"`
}

func (c *Client) StatesByCountry(ctx context.Context, countryID models.ID) ([]models.LookupOption, error) {
	raw := []stateOption{}
	if err := c.getJSON(ctx, "/Cascade/GetStateByCountryId/"+countryID.String(), &raw); err != nil {
		return nil, err
	}
	opts := make([]models.LookupOption, 0, len(raw))
	for _, o := range raw {
		opts = append(opts, models.LookupOption{ID: o.StateID, Name: o.StateName})
	}
	return opts, nil
}

type cityOption struct {
	CityID   models.ID `json:"cityId"`
	CityName string    `json:"cityName"`
}

func (c *Client) CitiesByState(ctx context.Context, stateID models.ID) ([]models.LookupOption, error) {
	raw := []cityOption{}
	if err := c.getJSON(ctx, "/Cascade/GetCityByStateId/"+stateID.String(), &raw); err != nil {
		return nil, err
	}
	opts := make([]models.LookupOption, 0, len(raw))
	for _, o := range raw {
		opts = append(opts, models.LookupOption{ID: o.CityID, Name: o.CityName})
	}
	return opts, nil
}

type genreOption struct {
	GenreID   models.ID `json:"genreId"`
	GenreName string    `json:"genreName"`
}

func (c *Client) Genres(ctx context.Context) ([]models.LookupOption, error) {
	raw := []genreOption{}
	if err := c.getJSON(ctx, "/Cascade/GenresList", &raw); err != nil {
		return nil, err
	}
	opts := make([]models.LookupOption, 0, len(raw))
	for _, o := range raw {
		opts = append(opts, models.LookupOption{ID: o.GenreID, Name: o.GenreName})
	}
	return opts, nil
}

type bookOption struct {
	BookID          models.ID `json:"bookId"`
	Title           string    `json:"title"`
	AvailableCopies int       `json:"availableCopies"`
}

func (c *Client) BooksByGenre(ctx context.Context, genreID models.ID) ([]models.LookupOption, error) {
	raw := []bookOption{}
	if err := c.getJSON(ctx, "/Cascade/BookList/"+genreID.String(), &raw); err != nil {
		return nil, err
	}
	opts := make([]models.LookupOption, 0, len(raw))
	for _, o := range raw {
		opts = append(opts, models.LookupOption{ID: o.BookID, Name: o.Title, AvailableCopies: o.AvailableCopies})
	}
	return opts, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}
	return nil
}

func (c *Client) doDiscard(req *http.Request) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	_, err = io.Copy(io.Discard, resp.Body)
	return errors.WithStack(err)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return errors.WithStack(&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))})
}
