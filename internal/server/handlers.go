package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rshade/gridpager/internal/demo"
	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/pagination"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
)

// PageHeader reports the page a fragment shows.
const PageHeader = "X-Grid-Page"

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// clickRequest is the body of POST /grid/click.
type clickRequest struct {
	Current int               `json:"current"`
	Classes []string          `json:"classes"`
	Data    map[string]string `json:"data"`
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/grid", s.handleFragment)
	s.engine.POST("/grid/click", s.handleClick)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.opts.Demo != nil {
		s.engine.GET("/data", s.handleData)
		s.engine.POST("/data", s.handleData)
	}
	if s.opts.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}
}

func respondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Status: "error", Message: err.Error()})
}

// statusFor maps grid errors to response codes.
func statusFor(err error) int {
	var statusErr *source.StatusError
	switch {
	case errors.Is(err, grid.ErrInvalidClick), errors.Is(err, source.ErrInvalidPage):
		return http.StatusBadRequest
	case errors.As(err, &statusErr), errors.Is(err, source.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// pageParam reads ?page=N, defaulting to 1.
func pageParam(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("page", strconv.Itoa(pagination.DefaultPage))
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errors.New("page must be a positive integer")
	}
	return page, nil
}

// newGrid creates a per-request grid showing current.
func (s *Server) newGrid(buf *render.Buffer, current int) (*grid.Grid[source.Record], error) {
	opts := s.opts.Grid
	opts.CurrentPage = current
	return grid.New[source.Record](buf, opts)
}

// renderPage loads page into a fresh grid and returns its markup.
func (s *Server) renderPage(c *gin.Context, page int) (string, bool) {
	var buf render.Buffer
	g, err := s.newGrid(&buf, page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return "", false
	}
	if err := g.ChangePage(c.Request.Context(), page); err != nil {
		respondError(c, statusFor(err), err)
		return "", false
	}
	return buf.HTML(), true
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	fragment, ok := s.renderPage(c, page)
	if !ok {
		return
	}

	html, err := renderShell(s.opts.Title, page, fragment)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) handleFragment(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	fragment, ok := s.renderPage(c, page)
	if !ok {
		return
	}
	c.Header(PageHeader, strconv.Itoa(page))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}

func (s *Server) handleClick(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Current < 1 {
		req.Current = pagination.DefaultPage
	}

	var buf render.Buffer
	g, err := s.newGrid(&buf, req.Current)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	ctx := c.Request.Context()
	if err := g.HandleClick(ctx, grid.ClickEvent{Classes: req.Classes, Data: req.Data}); err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	// Ignored clicks re-render the page the client is on.
	if buf.Writes() == 0 {
		if err := g.ChangePage(ctx, req.Current); err != nil {
			respondError(c, statusFor(err), err)
			return
		}
	}

	c.Header(PageHeader, strconv.Itoa(g.State().CurrentPage))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(buf.HTML()))
}

// formInt reads an integer from the form body (POST) or the query string.
func formInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetPostForm(name)
	if !ok {
		raw, ok = c.GetQuery(name)
	}
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func (s *Server) handleData(c *gin.Context) {
	start, err := formInt(c, source.ParamDisplayStart, 0)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	length, err := formInt(c, source.ParamDisplayLength, pagination.DefaultPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	length = min(length, pagination.MaxPageSize)

	category, ok := c.GetPostForm("category")
	if !ok {
		category = c.Query("category")
	}

	items, total, err := s.opts.Demo.List(c.Request.Context(), start, length, demo.Filter{Category: category})
	if err != nil {
		if errors.Is(err, demo.ErrInvalidWindow) {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, demo.Response{Data: items, Total: total})
}
