package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sunilfabrications/backend/api/controllers"
	"github.com/sunilfabrications/backend/api/middleware"
	"github.com/sunilfabrications/backend/internal/auth"
	"github.com/sunilfabrications/backend/internal/feedback"
	"github.com/sunilfabrications/backend/internal/gallery"
	"github.com/sunilfabrications/backend/internal/live"
	"github.com/sunilfabrications/backend/internal/media"
	"github.com/sunilfabrications/backend/internal/orders"
	"github.com/sunilfabrications/backend/internal/pricing"
	"github.com/sunilfabrications/backend/internal/users"
	"github.com/sunilfabrications/backend/pkg/auth/session"
	"github.com/sunilfabrications/backend/pkg/config"
	"github.com/sunilfabrications/backend/pkg/db"
	"github.com/sunilfabrications/backend/pkg/enums"
	"github.com/sunilfabrications/backend/pkg/logger"
	"github.com/sunilfabrications/backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Hub            *live.Hub
	AuthService    auth.Service
	UsersRepo      *users.Repository
	OrdersService  orders.Service
	PricingService pricing.Service
	GalleryService gallery.Service
	FeedbackSvc    feedback.Service
	MediaService   media.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	submitPolicy := middleware.NewAuthRateLimitPolicy(
		"submit",
		cfg.AuthRateLimit.SubmitWindow,
		cfg.AuthRateLimit.SubmitIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Marketing site surface: no auth, write paths throttled.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ping", controllers.PublicPing())
		r.Get("/pricing", controllers.PricingTable(deps.PricingService, logg))
		r.Post("/quote", controllers.PricingQuote(deps.PricingService, logg))
		r.Get("/gallery", controllers.GalleryList(deps.GalleryService, logg))
		r.Get("/testimonials", controllers.TestimonialsList(deps.FeedbackSvc, logg))

		r.With(middleware.AuthRateLimit(submitPolicy, deps.Redis, logg)).
			Post("/orders", controllers.OrderSubmit(deps.OrdersService, logg))
		r.With(middleware.AuthRateLimit(submitPolicy, deps.Redis, logg)).
			Post("/feedback", controllers.FeedbackSubmit(deps.FeedbackSvc, logg))
		r.With(middleware.AuthRateLimit(submitPolicy, deps.Redis, logg)).
			Post("/media/presign", controllers.MediaPresign(deps.MediaService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	// Dashboard surface: staff and admin.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(logg, string(enums.MemberRoleAdmin), string(enums.MemberRoleStaff)))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		adminOnly := middleware.RequireRole(logg, string(enums.MemberRoleAdmin))

		r.Get("/ping", controllers.AdminPing())
		r.Get("/live", controllers.LiveSubscribe(deps.Hub, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.OrdersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.OrdersService, logg))
			r.Get("/{orderId}/share", controllers.AdminOrderShare(deps.OrdersService, logg))
			r.With(adminOnly).Delete("/{orderId}", controllers.AdminOrderDelete(deps.OrdersService, logg))
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Post("/", controllers.AdminGalleryCreate(deps.GalleryService, logg))
			r.Put("/{itemId}", controllers.AdminGalleryUpdate(deps.GalleryService, logg))
			r.Delete("/{itemId}", controllers.AdminGalleryDelete(deps.GalleryService, logg))
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", controllers.AdminFeedbackList(deps.FeedbackSvc, logg))
			r.Get("/pending-count", controllers.AdminFeedbackPendingCount(deps.FeedbackSvc, logg))
			r.Patch("/{feedbackId}/status", controllers.AdminFeedbackModerate(deps.FeedbackSvc, logg))
			r.Delete("/{feedbackId}", controllers.AdminFeedbackDelete(deps.FeedbackSvc, logg))
		})

		r.Post("/media/presign", controllers.MediaPresign(deps.MediaService, logg))
		r.Delete("/media/{mediaId}", controllers.MediaDelete(deps.MediaService, logg))

		// Rate card and account management stay admin only.
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/pricing", controllers.AdminPricingUpsert(deps.PricingService, logg))
			r.Delete("/pricing/{itemId}", controllers.AdminPricingDelete(deps.PricingService, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUserList(deps.UsersRepo, logg))
				r.Post("/", controllers.AdminCreateStaff(deps.AuthService, logg))
				r.Patch("/{userId}/active", controllers.AdminUserSetActive(deps.UsersRepo, logg))
			})
		})
	})

	return r
}
