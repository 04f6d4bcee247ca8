package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/metrics"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/errors"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/handlers"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Config       *config.Config
	DrinkService domain.DrinkService
	Authorizer   domain.Authorizer
	DB           Pinger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Logger       *zap.Logger
}

type Router struct {
	router *chi.Mux
}

func NewRouter(deps Dependencies) *Router {
	logger := deps.Logger
	authMiddleware := auth.NewAuthMiddleware(deps.Authorizer, deps.Metrics, logger)
	drinkHandler := handlers.NewDrinkHandler(deps.DrinkService, logger)

	router := createRouter(deps.Config.CORSAllowedOrigins)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := deps.DB.Ping(r.Context()); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger UI configuration
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.PersistAuthorization(true),
	))
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	// Public routes
	router.Get("/drinks", drinkHandler.GetDrinks)

	// Protected routes, one permission each
	router.Group(func(r chi.Router) {
		r.With(authMiddleware.RequirePermission(domain.PermissionGetDrinksDetail)).
			Get("/drinks-detail", drinkHandler.GetDrinksDetail)
		r.With(authMiddleware.RequirePermission(domain.PermissionPostDrinks)).
			Post("/drinks", drinkHandler.CreateDrink)
		r.With(authMiddleware.RequirePermission(domain.PermissionPatchDrinks)).
			Patch("/drinks/{id}", drinkHandler.UpdateDrink)
		r.With(authMiddleware.RequirePermission(domain.PermissionDeleteDrinks)).
			Delete("/drinks/{id}", drinkHandler.DeleteDrink)
	})

	return &Router{router: router}
}

func createRouter(allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	// Add middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.NotFound(errors.NotFound)
	router.MethodNotAllowed(errors.MethodNotAllowed)

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
