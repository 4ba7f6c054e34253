// Package debug serves a small HTTP API for looking at a running client.
package debug

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/render"
	"voyager.com/golfclient/internal/table"
)

const boardTimeout = 2 * time.Second

// Table is what the server inspects. *table.Context implements it.
type Table interface {
	Loop() *render.Loop
	Board() table.BoardView
}

type Server struct {
	logger *zerolog.Logger
	table  Table
	engine *gin.Engine
	srv    *http.Server
}

func NewServer(port uint, t Table) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		logger: logging.GetZeroLogger("debug::Server", nil),
		table:  t,
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/ready", s.checkReady)
	r.GET("/board", s.board)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine = r
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	return s
}

// Handler exposes the routes without a listener.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info().Msgf("Debug server listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Debug server failed")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) checkReady(c *gin.Context) {
	type resp struct {
		Status string `json:"status"`
	}
	c.JSON(http.StatusOK, resp{Status: "OK"})
}

// board dumps the table. The dump is taken on the render loop so it sees a
// consistent frame.
func (s *Server) board(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), boardTimeout)
	defer cancel()

	var view table.BoardView
	err := s.table.Loop().Call(ctx, func() { view = s.table.Board() })
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not read the board")
		c.String(http.StatusServiceUnavailable, "Render loop is not running: %s", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
