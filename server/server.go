package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/sagarsuperuser/useradmin/internal/httputil"
	"github.com/sagarsuperuser/useradmin/internal/router"
	"github.com/sagarsuperuser/useradmin/internal/versions"
	"github.com/sagarsuperuser/useradmin/server/httpstatus"
	"github.com/sagarsuperuser/useradmin/server/middlewares"
	apiv1 "github.com/sagarsuperuser/useradmin/server/routes/api/v1"
	"github.com/sagarsuperuser/useradmin/server/settings"
	"github.com/sagarsuperuser/useradmin/store"
)

// versionMatcher defines a variable matcher to be parsed by the router
// when a request is about to be served.
const versionMatcher = "/v{version:[0-9.]+}"

const notFoundMessage = "page not found"

type Server struct {
	router      *mux.Router
	handler     http.Handler
	settings    *settings.Settings
	store       *store.Store
	apiV1       *apiv1.APIV1Service
	httpServer  *http.Server
	httpAddress string
	mu          sync.Mutex
	closed      bool
	middlewares []middlewares.Middleware
}

func NewServer(settings *settings.Settings, store *store.Store) (*Server, error) {
	ret := new(Server)
	ret.settings = settings
	ret.store = store
	mRouter := mux.NewRouter()

	// Global Middlewares --

	// register panic recovery middleware
	mRouter.Use(middlewares.Recovery())

	// Inject zerolog logger into request context
	mRouter.Use(hlog.NewHandler(log.Logger))

	// Install some provided extra handler to set some request's context fields.
	// Thanks to that handler, all our logs will come with some prepopulated fields.
	mRouter.Use(hlog.RemoteAddrHandler("ip"))
	mRouter.Use(hlog.UserAgentHandler("user_agent"))
	mRouter.Use(hlog.RefererHandler("referer"))
	mRouter.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))

	// register access logger, called after each request
	mRouter.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	}))
	// setup listen addresses
	ret.httpAddress = net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))

	mRouter.Methods(http.MethodGet).Path("/health").HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_ = httputil.WriteRawJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

	versionMW, err := middlewares.NewVersionMiddleware(settings)
	if err != nil {
		return nil, fmt.Errorf("invalid API version configuration: %w", err)
	}
	ret.UseMiddleware(versionMW)

	// register api version 1 endpoints
	ret.apiV1 = apiv1.NewAPIV1Service(settings, store)
	ret.router = ret.CreateMux(
		context.Background(),
		mRouter,
		apiv1.NewAuthRouter(ret.apiV1),
		apiv1.NewUserRouter(ret.apiV1),
	)
	ret.handler = newCORS(settings).Handler(ret.router)
	return ret, nil
}

// UseMiddleware registers a global APIFunc middleware.
// They are executed in the order that they are applied to the Router.
func (s *Server) UseMiddleware(mw middlewares.Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// Handler returns the root handler of the server, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Bootstrap seeds the data the service needs before serving.
func (s *Server) Bootstrap(ctx context.Context) error {
	return s.apiV1.EnsureAdmin(ctx)
}

func (s *Server) makeHTTPHandler(r router.Route) http.HandlerFunc {
	handler := r.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		//  Build APIFunc middleware chain.
		handlerFunc := s.handlerWithGlobalMiddlewares(handler)
		vars := mux.Vars(r)
		if vars == nil {
			vars = make(map[string]string)
		}

		if err := handlerFunc(ctx, w, r, vars); err != nil {
			writeError(ctx, w, r, vars, err)
		}
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, r *http.Request, vars map[string]string, err error) {
	statusCode := httpstatus.FromError(err)
	resp := httputil.ErrorResp{Message: err.Error()}
	if statusCode >= http.StatusInternalServerError {
		// In case of InternalServerError, message sent to client are standard HTTP code messages.
		resp.Message = http.StatusText(statusCode)
		zerolog.Ctx(ctx).Error().Err(err).Msgf("Handler for %s %s returned error", r.Method, r.URL.Path)
	} else {
		var detailed interface{ Details() any }
		if errors.As(err, &detailed) {
			resp.Errors = detailed.Details()
		}
		zerolog.Ctx(ctx).Debug().Err(err).Int("status", statusCode).Msg("request rejected")
	}

	// For very old clients expecting plaintext, keep responses readable.
	if v := vars["version"]; v != "" && versions.LessThan(v, "0.1") {
		http.Error(w, resp.Message, statusCode)
		return
	}
	_ = httputil.WriteRawJSON(w, statusCode, resp)
}

// CreateMux returns a new mux with all the routers registered.
func (s *Server) CreateMux(ctx context.Context, m *mux.Router, routers ...router.Router) *mux.Router {
	log.Debug().Msg("Registering routers")
	for _, apiRouter := range routers {
		for _, r := range apiRouter.Routes() {
			if ctx.Err() != nil {
				return m
			}
			log.Debug().Str("method", r.Method()).Str("path", r.Path()).Msg("Registering route")
			f := s.makeHTTPHandler(r)
			m.Path(versionMatcher + r.Path()).Methods(r.Method()).Handler(f)
			m.Path(r.Path()).Methods(r.Method()).Handler(f)
		}
	}

	// Setup handlers for undefined paths and methods
	notFoundHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteRawJSON(w, http.StatusNotFound, httputil.ErrorResp{
			Message: notFoundMessage,
		})
	})

	m.HandleFunc(versionMatcher+"/{path:.*}", notFoundHandler)
	m.NotFoundHandler = notFoundHandler
	m.MethodNotAllowedHandler = notFoundHandler

	return m
}

// Start listens on the configured address and serves until Shutdown is
// called. It returns nil after a graceful shutdown.
func (server *Server) Start() error {
	list, err := net.Listen("tcp", server.httpAddress)
	if err != nil {
		return fmt.Errorf("failed to open HTTP listener: %w", err)
	}
	log.Info().Str("address", list.Addr().String()).Msg("Listening for HTTP on")

	srv := &http.Server{
		Handler:           server.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.mu.Lock()
	if server.closed {
		server.mu.Unlock()
		return list.Close()
	}
	server.httpServer = srv
	server.mu.Unlock()

	if err := srv.Serve(list); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (server *Server) Shutdown(ctx context.Context) error {
	server.mu.Lock()
	server.closed = true
	srv := server.httpServer
	server.mu.Unlock()
	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		// drop whatever is left
		_ = srv.Close()
		return err
	}
	return nil
}
