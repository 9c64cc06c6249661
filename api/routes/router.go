package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stridesales/fieldops-backend/api/controllers"
	"github.com/stridesales/fieldops-backend/api/middleware"
	"github.com/stridesales/fieldops-backend/internal/allocations"
	"github.com/stridesales/fieldops-backend/internal/requests"
	"github.com/stridesales/fieldops-backend/internal/returns"
	"github.com/stridesales/fieldops-backend/internal/timeline"
	"github.com/stridesales/fieldops-backend/pkg/config"
	"github.com/stridesales/fieldops-backend/pkg/enums"
	"github.com/stridesales/fieldops-backend/pkg/logger"
	pkgredis "github.com/stridesales/fieldops-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	requestService requests.Service,
	returnService returns.Service,
	allocationService allocations.Service,
	timelineService timeline.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/shoe-requests", func(r chi.Router) {
			r.Post("/", controllers.ShoeRequestCreate(requestService, logg))
			r.Post("/batch", controllers.ShoeRequestCreateBatch(requestService, logg))
			r.Get("/", controllers.ShoeRequestList(requestService, logg))
			r.Get("/{requestId}", controllers.ShoeRequestDetail(requestService, logg))
			r.With(middleware.RequireRole(logg, enums.MemberRoleManager, enums.MemberRoleAdmin)).
				Patch("/{requestId}/status", controllers.ShoeRequestUpdateStatus(requestService, logg))
		})

		r.Route("/v1/shoe-returns", func(r chi.Router) {
			r.Post("/", controllers.ShoeReturnCreate(returnService, logg))
			r.Get("/", controllers.ShoeReturnList(returnService, logg))
			r.Get("/{returnId}", controllers.ShoeReturnDetail(returnService, logg))
			r.Get("/event-shoe-variant/{eventShoeVariantId}", controllers.ShoeReturnsByLedgerEntry(returnService, logg))
			r.With(middleware.RequireRole(logg, enums.MemberRoleManager, enums.MemberRoleAdmin)).
				Post("/{eventShoeVariantId}/receive", controllers.ShoeReturnReceive(returnService, logg))
		})

		r.Route("/v1/events/{eventId}", func(r chi.Router) {
			r.Get("/request-timeline", controllers.EventRequestTimeline(timelineService, logg))
			r.Get("/shoe-variants", controllers.EventShoeVariants(allocationService, logg))
			r.With(middleware.RequireRole(logg, enums.MemberRoleManager, enums.MemberRoleAdmin)).
				Post("/shoe-variants/received", controllers.EventShoeVariantsReceived(allocationService, logg))
		})
	})

	return r
}
