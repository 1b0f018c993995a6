package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/userdesk/internal/platform/ratelimit"
	"github.com/louisbranch/userdesk/internal/platform/timeouts"
	"github.com/louisbranch/userdesk/internal/services/web/app"
	"github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/modules"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdesk/internal/services/web/platform/observability"
	"github.com/louisbranch/userdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
	"github.com/louisbranch/userdesk/internal/services/web/static"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	// APITimeout bounds each users API call. Zero means no per-call timeout.
	APITimeout      time.Duration
	PageSize        int
	ViewTTL         time.Duration
	DisplayLocation *time.Location
	// SubmitRate is the registration submits per second allowed per client
	// IP. Zero disables limiting.
	SubmitRate          float64
	SubmitBurst         int
	TrustForwardedProto bool
	TrustForwardedFor   bool
	Logger              *log.Logger
	// UsersClient replaces the client built from APIBaseURL.
	UsersClient module.UsersClient
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	handler    *Handler
}

// Handler is the composed root handler plus the resources behind it.
type Handler struct {
	http.Handler
	modules []module.Module
	limiter *ratelimit.Keyed
}

// Close stops background janitors owned by modules and the rate limiter.
func (h *Handler) Close() {
	if h == nil {
		return
	}
	modules.Close(h.modules)
	h.limiter.Close()
}

// NewHandler builds the root handler: modules, health, static assets and the
// shared middleware chain.
func NewHandler(config Config) (*Handler, error) {
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	client := config.UsersClient
	if client == nil {
		apiClient, err := usersapi.New(usersapi.Config{
			BaseURL: config.APIBaseURL,
			Timeout: config.APITimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("users api client: %w", err)
		}
		client = apiClient
	}
	limiter := ratelimit.New(ratelimit.Config{Rate: config.SubmitRate, Burst: config.SubmitBurst})

	deps := app.ResolveDependencies(module.Dependencies{
		UsersClient: client,
		SchemePolicy: requestmeta.SchemePolicy{
			TrustForwardedProto: config.TrustForwardedProto,
			TrustForwardedFor:   config.TrustForwardedFor,
		},
		PageSize:        config.PageSize,
		ViewTTL:         config.ViewTTL,
		DisplayLocation: config.DisplayLocation,
		SubmitLimiter:   limiter,
		Logger:          logger,
	})
	mods := modules.DefaultModules(deps)
	root, err := app.BuildRootHandler(app.Config{Modules: mods})
	if err != nil {
		modules.Close(mods)
		limiter.Close()
		return nil, fmt.Errorf("compose modules: %w", err)
	}

	readOnly := httpx.MethodNotAllowed("GET, HEAD")
	mux := http.NewServeMux()
	mux.Handle(http.MethodGet+" "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(static.FS)))
	mux.Handle(routepath.StaticPrefix, readOnly)
	mux.Handle(http.MethodGet+" "+routepath.Health, app.HealthHandler(mods))
	mux.Handle(routepath.Health, readOnly)
	mux.Handle(routepath.Root, root)

	handler := httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		observability.Tracing(),
		observability.RequestLogger(logger),
	)
	return &Handler{Handler: handler, modules: mods, limiter: limiter}, nil
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
		IdleTimeout:       timeouts.Idle,
	}
	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		handler:    handler,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the background resources held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.handler.Close()
}
