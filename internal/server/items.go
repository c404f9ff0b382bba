package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/label"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/store/categories"
	"github.com/idilsaglam/mythings/internal/view"
)

type Items struct {
	Items []model.Item `json:"items"`
}

// fail maps core errors onto HTTP statuses.
func (s *Server) fail(c echo.Context, err error) error {
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, Response{Message: "please fill in all fields", Fields: ve.Fields})
	case errors.Is(err, app.ErrNoImage):
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	case errors.Is(err, categories.ErrEmptyName):
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	case errors.Is(err, app.ErrNotFound), errors.Is(err, categories.ErrNotFound):
		return c.JSON(http.StatusNotFound, Response{Message: err.Error()})
	}
	c.Logger().Errorf("request failed: %v", err)
	return c.JSON(http.StatusInternalServerError, Response{Message: err.Error()})
}

func (s *Server) listItems(c echo.Context) error {
	sel := view.Selection{Category: c.QueryParam("category"), Query: c.QueryParam("q")}
	return c.JSON(http.StatusOK, Items{Items: s.app.Visible(sel)})
}

func (s *Server) getItem(c echo.Context) error {
	it, ok := s.app.Items.Get(c.Param("id"))
	if !ok {
		return s.fail(c, app.ErrNotFound)
	}
	return c.JSON(http.StatusOK, it)
}

func itemForm(c echo.Context) form.Item {
	return form.Item{
		Name:     c.FormValue("name"),
		Brand:    c.FormValue("brand"),
		Category: c.FormValue("category"),
		Price:    c.FormValue("price"),
	}
}

// uploadedImage returns the "image" part, or nil if none was sent.
func uploadedImage(c echo.Context) (io.ReadCloser, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

func (s *Server) addItem(c echo.Context) error {
	f := itemForm(c)
	c.Logger().Infof("Receive item: %s", f.Name)
	img, err := uploadedImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	}
	var r io.Reader
	if img != nil {
		defer img.Close()
		r = img
	}
	it, err := s.app.SaveItemFrom(f, nil, r)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// updateItem keeps fields that were not sent.
func (s *Server) updateItem(c echo.Context) error {
	existing, ok := s.app.Items.Get(c.Param("id"))
	if !ok {
		return s.fail(c, app.ErrNotFound)
	}
	f := form.FromItem(existing)
	sent := itemForm(c)
	if sent.Name != "" {
		f.Name = sent.Name
	}
	if sent.Brand != "" {
		f.Brand = sent.Brand
	}
	if sent.Category != "" {
		f.Category = sent.Category
	}
	if sent.Price != "" {
		f.Price = sent.Price
	}
	img, err := uploadedImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	}
	var r io.Reader
	if img != nil {
		defer img.Close()
		r = img
	}
	it, err := s.app.SaveItemFrom(f, &existing, r)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (s *Server) deleteItem(c echo.Context) error {
	if err := s.app.DeleteItem(c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, Response{Message: "deleted"})
}

func (s *Server) itemLabel(c echo.Context) error {
	it, ok := s.app.Items.Get(c.Param("id"))
	if !ok {
		return s.fail(c, app.ErrNotFound)
	}
	size := label.DefaultSize
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, Response{Message: "size must be a number"})
		}
		size = n
	}
	b, err := label.PNG(it, size)
	if errors.Is(err, label.ErrSize) {
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	}
	if err != nil {
		return s.fail(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", b)
}

func (s *Server) getImage(c echo.Context) error {
	name := c.Param("name")
	etag := `"` + s.cache.Token() + `"`
	b, ok := s.cache.Get(name)
	if !ok {
		c.Logger().Debugf("Image not found: %s", name)
		return c.JSON(http.StatusNotFound, Response{Message: "image not found"})
	}
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	if w, err := strconv.Atoi(c.QueryParam("w")); err == nil && w > 0 {
		if b, ok = s.cache.Thumbnail(name, w); !ok {
			return c.JSON(http.StatusInternalServerError, Response{Message: "thumbnail failed"})
		}
	}
	c.Response().Header().Set("ETag", etag)
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, "image/png", b)
}
