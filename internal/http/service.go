package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/storefront-catalog/api-contract"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// StaticMedia serves files of the local media driver.
type StaticMedia struct {
	// PublicPath is the URL prefix, e.g. /uploads.
	PublicPath string
	Dir        string
}

// Dependencies are the collaborators the HTTP service delegates to.
type Dependencies struct {
	ProductSvc service.ProductService
	PromoSvc   service.PromoService
	UploadSvc  service.UploadService

	Verifier auth.Verifier
	// Throttle is optional; nil disables throttling of failed admin attempts.
	Throttle *auth.Throttle

	// HealthChecker is optional; nil reports healthy.
	HealthChecker db.HealthChecker
	// StaticMedia is optional.
	StaticMedia   *StaticMedia
}

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	deps Dependencies
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	deps Dependencies,
) *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Service{
		cfg:      cfg,
		logger:   log.With(slog.String("service", "http")),
		registry: registry,
		metrics:  metric.New(registry),
		deps:     deps,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the complete router: middlewares, docs and API routes.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	if err := s.RegisterHandlers(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))

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

func (s *Service) RegisterHandlers(r chi.Router) error {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("create validator: %w", err)
	}

	// Contract validation runs after the admin guard so that unauthenticated
	// callers learn nothing about the request shape.
	var validate []func(http.Handler) http.Handler
	if s.cfg.ValidateRequests {
		router, err := middleware.NewOpenAPIRouter(apicontract.GetSpecBytes())
		if err != nil {
			return err
		}
		validate = append(validate, middleware.OpenAPIValidator(router, s.handleRequestError))
	}

	admin := middleware.Admin(s.deps.Verifier, s.deps.Throttle, s.metrics, s.handleResponseError)

	products := newProductHandler(s.deps.ProductSvc, v)
	promos := newPromoHandler(s.deps.PromoSvc, v)
	uploads := newUploadHandler(s.deps.UploadSvc, s.cfg.MaxUploadBytes)
	health := newHealthHandler(s.logger, s.deps.HealthChecker)

	r.Get("/", s.handle(health.Root))
	r.Get("/healthz", s.handle(health.Healthz))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(validate...)

			r.Get("/products", s.handle(products.ListProducts))
			r.Get("/products/{id}", s.handle(products.GetProduct))
			r.Get("/products/{id}/similar", s.handle(products.GetSimilarProducts))
			r.Get("/promo/{code}", s.handle(promos.GetPromo))
		})

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Use(validate...)

			r.Post("/products", s.handle(products.CreateProduct))
			r.Put("/products/{id}", s.handle(products.UpdateProduct))
			r.Delete("/products/{id}", s.handle(products.DeleteProduct))
			r.Post("/promo", s.handle(promos.CreatePromo))
			r.Post("/upload", s.handle(uploads.UploadImage))
		})
	})

	if m := s.deps.StaticMedia; m != nil {
		prefix := "/" + strings.Trim(m.PublicPath, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(m.Dir))))
	}

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	return nil
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	s.logger.WarnContext(r.Context(), "http request rejected", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.WarnContext(r.Context(), "error encoding error request",
			slog.Any("error", err))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
