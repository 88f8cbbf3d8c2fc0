package server

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ashwch/bol/internal/intent"
	"github.com/ashwch/bol/internal/recorder"
	"github.com/ashwch/bol/internal/safety"
)

const (
	appName   = "bol"
	bodyLimit = 64 * 1024
)

// Recorder persists resolved transcripts. recorder.Stores satisfies it.
type Recorder interface {
	Record(recorder.Entry) error
}

type Options struct {
	Resolver       *intent.Resolver
	AllowedOrigins []string
	Logger         *zap.Logger
	Recorder       Recorder
	// Registry receives the server's metrics; nil creates a private one.
	Registry *prometheus.Registry
	Version  string
}

// Server exposes the resolver to browsers over HTTP and WebSocket.
type Server struct {
	app      *fiber.App
	resolver *intent.Resolver
	logger   *zap.Logger
	recorder Recorder
	metrics  *Metrics
	version  string
	sessions atomic.Uint64
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		resolver: opts.Resolver,
		logger:   logger,
		recorder: opts.Recorder,
		metrics:  NewMetrics(registry),
		version:  opts.Version,
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(opts.AllowedOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept",
			AllowMethods: "GET, POST, OPTIONS",
		}))
	}

	app.Get("/healthz", s.handleHealth)
	app.Get("/metrics", s.metrics.handle)

	v1 := app.Group("/v1")
	v1.Get("/routes", s.handleRoutes)
	v1.Get("/fields", s.handleFields)
	v1.Post("/resolve", s.handleResolve)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/voice", websocket.New(s.handleVoice))

	s.app = app
	return s
}

func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	s.logger.Info("listening",
		zap.String("addr", addr),
		zap.String("locale", s.resolver.Locale()),
		zap.String("chat_path", s.resolver.ChatPath()),
	)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// resolve runs one transcript through the resolver and records it. Every
// surface goes through here so metrics and the journal agree.
func (s *Server) resolve(source, sessionID, transcript, currentPath, locale string) intent.Result {
	resolver := s.resolver.WithLocale(locale)

	started := time.Now()
	result := resolver.Resolve(transcript, currentPath)
	s.metrics.observe(source, result.Kind(), time.Since(started))

	if s.recorder != nil {
		err := s.recorder.Record(recorder.Entry{
			Source:      source,
			SessionID:   sessionID,
			CurrentPath: currentPath,
			Transcript:  transcript,
			Locale:      resolver.Locale(),
			Result:      result,
		})
		if err != nil {
			s.metrics.recordFailures.Inc()
			s.logger.Warn("could not record resolution", zap.Error(err))
		}
	}

	s.logger.Debug("resolved",
		zap.String("source", source),
		zap.String("session", sessionID),
		zap.String("path", currentPath),
		zap.String("transcript", safety.RedactTranscript(transcript, result)),
		zap.String("kind", string(result.Kind())),
	)
	return result
}
