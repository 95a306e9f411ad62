package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/timbermill-backend/api/controllers"
	"github.com/angelmondragon/timbermill-backend/api/middleware"
	"github.com/angelmondragon/timbermill-backend/internal/analytics"
	"github.com/angelmondragon/timbermill-backend/internal/auth"
	"github.com/angelmondragon/timbermill-backend/internal/contacts"
	"github.com/angelmondragon/timbermill-backend/internal/woods"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/timbermill-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. Redis-backed fields
// (Redis, Idempotency) are left nil when Redis is not configured.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DB          controllers.Pinger
	Redis       controllers.Pinger
	Storage     controllers.Pinger
	Idempotency pkgredis.IdempotencyStore

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	// Uploads serves stored images relative to /uploads.
	Uploads http.Handler

	Auth      auth.Service
	Woods     woods.Service
	Contacts  contacts.Service
	Analytics analytics.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "db", Pinger: p.DB},
			controllers.ReadinessCheck{Name: "redis", Pinger: p.Redis},
			controllers.ReadinessCheck{Name: "storage", Pinger: p.Storage},
		))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	if p.Uploads != nil {
		uploads := http.StripPrefix("/uploads", p.Uploads)
		r.Method(http.MethodGet, "/uploads/*", uploads)
		r.Method(http.MethodHead, "/uploads/*", uploads)
	}

	maxUpload := cfg.Uploads.MaxUploadBytes()
	idempotent := middleware.Idempotency(p.Idempotency, logg, maxUpload)

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", controllers.AdminLogin(p.Auth, logg))
		r.Get("/woods", controllers.ListWoods(p.Woods, logg))
		r.With(idempotent).Post("/contact", controllers.SubmitContact(p.Contacts, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(idempotent).Post("/woods", controllers.CreateWood(p.Woods, maxUpload, logg))
			r.Put("/woods/{id}", controllers.UpdateWood(p.Woods, logg))
			r.Delete("/woods/{id}", controllers.DeleteWood(p.Woods, logg))

			r.Get("/contact", controllers.ListContacts(p.Contacts, logg))
			r.Delete("/contact/{id}", controllers.DeleteContact(p.Contacts, logg))

			r.Get("/admin/analytics", controllers.AnalyticsSummary(p.Analytics, logg))
		})
	})

	return r
}
