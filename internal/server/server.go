// Package server exposes the monitor over HTTP: the latest spectrum and
// frame as JSON, a websocket stream of frames and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Listen          string        `yaml:"listen" default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"5s" validate:"gt=0"`
	PingInterval    time.Duration `yaml:"ping_interval" default:"30s" validate:"gt=0"`
	Metrics         bool          `yaml:"metrics" default:"true"`
}

const writeWait = 5 * time.Second

// Option configures Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer serves metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// Server wraps the Echo HTTP server.
type Server struct {
	echo     *echo.Echo
	cfg      Config
	hub      *Hub
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
}

// New creates a server publishing the frames of hub.
func New(hub *Hub, cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		hub:      hub,
		logger:   zap.NewNop(),
		gatherer: prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cfg.PingInterval <= 0 {
		s.cfg.PingInterval = 30 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	e.GET("/spectrum", s.handleSpectrum)
	e.GET("/frame", s.handleFrame)
	e.GET("/ws", s.handleStream)
	if cfg.Metrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	s.echo = e
	return s
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe serves until Shutdown is called, then returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Listen))
	if err := s.echo.Start(s.cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

type healthResponse struct {
	Status      string `json:"status"`
	Frames      uint64 `json:"frames"`
	Subscribers int    `json:"subscribers"`
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := healthResponse{Status: "ok", Subscribers: s.hub.Subscribers()}
	if f, ok := s.hub.Latest(); ok {
		resp.Frames = f.Sequence
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSpectrum(c echo.Context) error {
	maxHz, err := s.maxHz(c)
	if err != nil {
		return err
	}
	f, ok := s.hub.Latest()
	if !ok {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no spectrum yet")
	}
	return c.JSON(http.StatusOK, f.Spectrum.Crop(maxHz))
}

func (s *Server) handleFrame(c echo.Context) error {
	maxHz, err := s.maxHz(c)
	if err != nil {
		return err
	}
	f, ok := s.hub.Latest()
	if !ok {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no frame yet")
	}
	return c.JSON(http.StatusOK, f.Cropped(maxHz))
}

// maxHz reads the max_hz query parameter, defaulting to the hub's display
// range.
func (s *Server) maxHz(c echo.Context) (float64, error) {
	q := c.QueryParam("max_hz")
	if q == "" {
		return s.hub.maxHz, nil
	}
	v, err := strconv.ParseFloat(q, 64)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "max_hz must be a non-negative number")
	}
	return v, nil
}

func (s *Server) handleStream(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the error response.
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return nil
	}
	defer conn.Close()

	frames, cancel := s.hub.Subscribe()
	defer cancel()

	// Drain client messages so control frames are processed and a closed
	// connection is noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return nil
		case msg, ok := <-frames:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber too slow"),
					time.Now().Add(writeWait))
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}
