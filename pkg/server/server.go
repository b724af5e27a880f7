// Package server exposes the frame pipeline over HTTP.
//
// The server keeps one [frame.Assembler] per chart key, so a client that
// resubmits a chart with an unchanged data_version hits the skip path
// instead of recomputing. Encoded frames are cached per key, revision and
// size; rendered artifacts go through the pipeline's artifact cache.
//
// # Routes
//
//	GET    /healthz
//	POST   /v1/frame                 chart definition in, frame JSON out
//	POST   /v1/render?format=svg     chart definition in, artifact out
//	GET    /v1/frames/{key}          latest frame of a chart
//	POST   /v1/frames/{key}/hover    datum in, tooltip and marker out
//	DELETE /v1/frames/{key}          forget a chart
package server

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/xyframe/pkg/frame"
	"github.com/matzehuels/xyframe/pkg/observability"
	"github.com/matzehuels/xyframe/pkg/pipeline"
)

const (
	// DefaultMaxFrames bounds the number of charts kept in memory.
	DefaultMaxFrames = 1024

	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 10 << 20

	// DefaultTimeout bounds request handling.
	DefaultTimeout = 30 * time.Second
)

// Server serves chart frames. It is safe for concurrent use.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	maxFrames int
	maxBody   int64
	timeout   time.Duration

	mu     sync.Mutex
	frames map[string]*frame.Assembler
	order  []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxFrames bounds the charts kept in memory. The least recently
// created chart is evicted first.
func WithMaxFrames(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxFrames = n
		}
	}
}

// WithMaxBody bounds request bodies in bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithTimeout bounds request handling.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a server backed by runner. A nil runner disables caching.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		maxFrames: DefaultMaxFrames,
		maxBody:   DefaultMaxBody,
		timeout:   DefaultTimeout,
		frames:    make(map[string]*frame.Assembler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.runner = runner
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/frame", s.handleFrame)
		r.Post("/render", s.handleRender)
		r.Route("/frames/{key}", func(r chi.Router) {
			r.Get("/", s.handleGetFrame)
			r.Delete("/", s.handleDeleteFrame)
			r.Post("/hover", s.handleHover)
		})
	})
	return r
}

// observe reports requests to the server hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		ctx := r.Context()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		pattern := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}
		dur := time.Since(start)
		hooks.OnResponse(ctx, r.Method, pattern, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"request_id", middleware.GetReqID(ctx),
			"duration", dur)
	})
}

// assembler returns the assembler of key, creating it when create is set.
func (s *Server) assembler(key string, create bool) *frame.Assembler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.frames[key]; ok {
		return a
	}
	if !create {
		return nil
	}
	for len(s.order) >= s.maxFrames {
		evicted := s.order[0]
		s.order = s.order[1:]
		delete(s.frames, evicted)
		s.logger.Debug("evicted frame", "key", evicted)
	}
	a := frame.NewAssembler(frame.WithKey(key), frame.WithLogger(s.logger))
	s.frames[key] = a
	s.order = append(s.order, key)
	return a
}

func (s *Server) forget(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frames[key]; !ok {
		return false
	}
	delete(s.frames, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
