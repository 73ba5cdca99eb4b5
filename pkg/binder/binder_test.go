package binder

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Date  string `json:"date" validate:"omitempty,date"`
}

type queryParams struct {
	Page *int   `query:"page" validate:"omitempty,min=1"`
	Sort string `query:"sort"`
}

type uploadParams struct {
	Hello     string                           `form:"hello" mod:"trim"`
	FormFiles map[string]*multipart.FileHeader `form:"-"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
	badDateJSON          = `{"hello":"world","date":"01-10-2024"}`
	goodDateJSON         = `{"hello":"world","date":"2024-01-10"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("rejects unsupported content types", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("validates date format", func(tt *testing.T) {
		c := newContext(badDateJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"date" should be in the format of YYYY-MM-DD`)

		c = newContext(goodDateJSON, echo.MIMEApplicationJSON)
		p = params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "2024-01-10", p.Date)
	})
}

func TestBindQuery(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes query params on GET", func(tt *testing.T) {
		c := newQueryContext("page=3&sort=memberName")
		p := queryParams{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		require.NotNil(tt, p.Page)
		assert.Equal(tt, 3, *p.Page)
		assert.Equal(tt, "memberName", p.Sort)
	})

	t.Run("returns a good message for conversion errors", func(tt *testing.T) {
		c := newQueryContext("page=abc")
		p := queryParams{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"page" should be of type int`)
	})

	t.Run("rejects unknown query params", func(tt *testing.T) {
		c := newQueryContext("foo=1")
		p := queryParams{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("runs validation on query params", func(tt *testing.T) {
		c := newQueryContext("page=0")
		p := queryParams{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"page" must be greater than or equal to 1`)
	})
}

func TestBindMultipart(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("hello", " world "))
	fw, err := w.CreateFormFile("image", "proof.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fakeimagebytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	c := e.NewContext(req, httptest.NewRecorder())

	p := uploadParams{}
	err = b.Bind(&p, c)
	require.NoError(t, err)

	assert.Equal(t, "world", p.Hello)
	require.Contains(t, p.FormFiles, "image")
	assert.Equal(t, "proof.png", p.FormFiles["image"].Filename)
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newQueryContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, "/?"+query, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
