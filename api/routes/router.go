package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/studioops-backend/api/controllers"
	"github.com/angelmondragon/studioops-backend/api/middleware"
	"github.com/angelmondragon/studioops-backend/internal/deployments"
	"github.com/angelmondragon/studioops-backend/pkg/config"
	"github.com/angelmondragon/studioops-backend/pkg/db"
	"github.com/angelmondragon/studioops-backend/pkg/logger"
	"github.com/angelmondragon/studioops-backend/pkg/metrics"
	"github.com/angelmondragon/studioops-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	deploymentService deployments.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	// keep the interface nil when the concrete client is nil
	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/deployments", func(r chi.Router) {
			r.Get("/", controllers.ActiveDeployments(deploymentService, logg))
			r.Get("/form-data", controllers.DeploymentFormData(deploymentService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireDeploymentManager(logg))
				r.Post("/", controllers.CreateDeployment(deploymentService, logg))
				r.Post("/{assignmentId}/return", controllers.QuickReturnDeployment(deploymentService, logg))
			})
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Get("/{equipmentId}/assignments", controllers.EquipmentHistory(deploymentService, logg))
		})
	})

	return r
}
