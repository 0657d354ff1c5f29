package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/http/metric"
	"github.com/tuanvumaihuynh/productstack/internal/http/middleware"
	"github.com/tuanvumaihuynh/productstack/internal/http/swagger"
	"github.com/tuanvumaihuynh/productstack/internal/service"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
	"github.com/tuanvumaihuynh/productstack/internal/storage/image"
	"github.com/tuanvumaihuynh/productstack/pkg/validator"
)

var tracer = otel.Tracer("productstack/internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	authCfg   config.Auth
	imageCfg  config.Image
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metric.Metrics
	validator validator.Validator

	productSvc service.ProductService
	authSvc    service.AuthService
	health     db.HealthChecker
	images     image.Store
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	authCfg config.Auth,
	imageCfg config.Image,
	log *slog.Logger,
	productSvc service.ProductService,
	authSvc service.AuthService,
	health db.HealthChecker,
	images image.Store,
) (*Service, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Service{
		cfg:        cfg,
		authCfg:    authCfg,
		imageCfg:   imageCfg,
		logger:     log.With(slog.String("service", "http")),
		registry:   registry,
		metrics:    metric.New(registry),
		validator:  v,
		productSvc: productSvc,
		authSvc:    authSvc,
		health:     health,
		images:     images,
	}, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler: handler,
		// uploads of a full gallery need more than the usual read budget
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.ErrorContext(ctx, "http server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	rs := responder{logger: s.logger}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.Error(w, r, apperr.RouteNotFoundErr)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.Error(w, r, apperr.MethodNotAllowedErr)
	})

	health := &healthHandler{responder: rs, checker: s.health}
	r.Get("/api/health", health.Health)

	r.Route("/api/auth", newAuthHandler(rs, s.authSvc, s.validator, s.authCfg).Routes)

	r.Route("/api/products", func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.authSvc, s.logger))
		newProductHandler(rs, s.productSvc, s.validator, s.imageCfg, s.metrics).Routes(r)
	})

	if fs, ok := s.images.(*image.FileStore); ok {
		r.Handle(image.PublicPrefix+"*", http.StripPrefix(image.PublicPrefix, noDirListing(http.FileServer(http.Dir(fs.Dir())))))
	}

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// noDirListing hides directory indexes of the upload directory.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
