package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"touchdown/internal/config"
	"touchdown/internal/game"
	"touchdown/internal/monitoring"
	"touchdown/internal/scores"
	"touchdown/internal/threading"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

const (
	maxFrameSide    = 1024
	shutdownTimeout = 5 * time.Second
)

// FrameServer renders sessions headlessly and serves them over HTTP and
// websockets. Every websocket connection plays its own session against the
// shared read-only assets.
type FrameServer struct {
	cfg     *config.Config
	assets  *game.Assets
	store   scores.Store
	monitor *monitoring.PerformanceMonitor
	// shared by every session for the life of the process
	pool *threading.WorkerPool

	upgrader  websocket.Upgrader
	startTime time.Time

	mu      sync.Mutex
	clients map[string]*wsClient
}

// New creates a frame server. store may be nil.
func New(cfg *config.Config, assets *game.Assets, store scores.Store, monitor *monitoring.PerformanceMonitor) *FrameServer {
	if monitor == nil {
		monitor = monitoring.NewPerformanceMonitor()
	}
	return &FrameServer{
		cfg:     cfg,
		assets:  assets,
		store:   store,
		monitor: monitor,
		pool:    threading.StartPool(cfg.Render.Workers),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		startTime: time.Now(),
		clients:   make(map[string]*wsClient),
	}
}

// Router builds the HTTP routes with middlewares.
func (s *FrameServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/metrics", s.handleMetrics)
	r.Get("/frame.png", s.handleFrame)
	r.Get("/scores", s.handleScores)
	r.HandleFunc("/ws", s.handleWebSocket)

	return r
}

// ListenAndServe serves on the configured address until ctx ends.
func (s *FrameServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Frame server started on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.closeClients()
	return srv.Shutdown(shutdownCtx)
}

func (s *FrameServer) registerClient(c *wsClient) {
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
}

func (s *FrameServer) unregisterClient(c *wsClient) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
}

func (s *FrameServer) activeClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *FrameServer) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.conn.Close()
	}
}

// newSession starts a session that shares this server's store and monitor.
func (s *FrameServer) newSession() *game.Session {
	opts := []game.Option{game.WithMonitor(s.monitor), game.WithPool(s.pool)}
	if s.store != nil {
		opts = append(opts, game.WithScores(s.store))
	}
	return game.NewSession(s.cfg, s.assets, opts...)
}
