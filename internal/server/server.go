// Package server exposes the inventory over a local HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/auth"
	"github.com/idilsaglam/mythings/internal/images"
)

type Options struct {
	Token    string // empty disables auth
	FrontURL string
}

type Server struct {
	app   *app.App
	cache *images.Cache
	opts  Options
	e     *echo.Echo
}

type Response struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func New(a *app.App, opts Options) *Server {
	s := &Server{app: a, cache: a.NewImageCache(), opts: opts}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = a.Logger("http")

	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: e.Logger.Output()}))
	e.Use(middleware.Recover())
	if opts.FrontURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{opts.FrontURL},
			AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		}))
	}
	e.Use(s.requireToken)

	// Routes
	e.GET("/", s.root)
	e.GET("/status", s.status)
	e.GET("/items", s.listItems)
	e.GET("/items/:id", s.getItem)
	e.POST("/items", s.addItem)
	e.PUT("/items/:id", s.updateItem)
	e.DELETE("/items/:id", s.deleteItem)
	e.GET("/items/:id/label", s.itemLabel)
	e.GET("/categories", s.listCategories)
	e.POST("/categories", s.addCategory)
	e.PUT("/categories/:id", s.updateCategory)
	e.DELETE("/categories/:id", s.deleteCategory)
	e.GET("/brands", s.listBrands)
	e.POST("/brands", s.addBrand)
	e.DELETE("/brands/:name", s.removeBrand)
	e.GET("/images/:name", s.getImage)
	e.GET("/events", s.events)

	s.e = e
	return s
}

// Handler is the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.e }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.e.Start(addr) }()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	}
}

// requireToken accepts "Authorization: Bearer <token>" or ?token= (for
// websocket clients that cannot set headers).
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.opts.Token == "" || c.Path() == "/" {
			return next(c)
		}
		got := c.Request().Header.Get(echo.HeaderAuthorization)
		if got == "" {
			got = c.QueryParam("token")
		}
		if !auth.Check(s.opts.Token, got) {
			return c.JSON(http.StatusUnauthorized, Response{Message: "missing or invalid token"})
		}
		return next(c)
	}
}

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{Message: "My Things is running"})
}

func (s *Server) status(c echo.Context) error {
	res := map[string]any{
		"items":      s.app.Items.Len(),
		"categories": len(s.app.Categories.All()),
		"imageToken": s.app.Signal.Token(),
	}
	if err := s.app.Status(); err != nil {
		res["persistError"] = err.Error()
	}
	return c.JSON(http.StatusOK, res)
}
