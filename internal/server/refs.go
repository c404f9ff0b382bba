package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/store/categories"
)

type categoryRequest struct {
	Name  string `json:"name" form:"name"`
	Color string `json:"color" form:"color"`
}

type brandRequest struct {
	Name string `json:"name" form:"name"`
}

func (s *Server) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]model.Category{"categories": s.app.Categories.All()})
}

func (s *Server) bindCategory(c echo.Context) (form.Category, error) {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return form.Category{}, err
	}
	f := form.Category{Name: req.Name, Color: req.Color}
	return f, f.Validate()
}

func (s *Server) addCategory(c echo.Context) error {
	f, err := s.bindCategory(c)
	if err != nil {
		return s.fail(c, err)
	}
	cat, err := s.app.Categories.Add(f.Name, f.Color)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c echo.Context) error {
	f, err := s.bindCategory(c)
	if err != nil {
		return s.fail(c, err)
	}
	cat := model.Category{ID: c.Param("id"), Name: f.Name, Color: f.Color}
	ok, err := s.app.Categories.Update(cat)
	if err != nil {
		return s.fail(c, err)
	}
	if !ok {
		return s.fail(c, categories.ErrNotFound)
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c echo.Context) error {
	if err := s.app.Categories.DeleteByID(c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, Response{Message: "deleted"})
}

func (s *Server) listBrands(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"brands": s.app.Brands.All()})
}

func (s *Server) addBrand(c echo.Context) error {
	var req brandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
	}
	added, err := s.app.Brands.Add(req.Name)
	if err != nil {
		return s.fail(c, err)
	}
	if !added {
		return c.JSON(http.StatusOK, Response{Message: "brand already saved or empty"})
	}
	return c.JSON(http.StatusCreated, Response{Message: "saved"})
}

func (s *Server) removeBrand(c echo.Context) error {
	removed, err := s.app.Brands.Remove(c.Param("name"))
	if err != nil {
		return s.fail(c, err)
	}
	if !removed {
		return c.JSON(http.StatusNotFound, Response{Message: "brand not found"})
	}
	return c.JSON(http.StatusOK, Response{Message: "removed"})
}
