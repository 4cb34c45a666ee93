package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kylethumm90/solar-review-hub-sub000/api/controllers"
	"github.com/kylethumm90/solar-review-hub-sub000/api/middleware"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/attachments"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/auditlog"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/auth"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/claims"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/notifications"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/questions"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/reviews"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/auth/session"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/config"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/enums"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/metrics"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/redis"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/storage/gcs"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Companies     companies.Service
	Questions     *questions.Repository
	Reviews       reviews.Service
	Claims        claims.Service
	Attachments   attachments.Service
	Notifications notifications.Service
	AuditLog      *auditlog.Repository
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(httpMetrics),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, gcsClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// Public directory endpoints, no session required.
	r.Route("/api/v1/companies", func(r chi.Router) {
		r.Get("/", controllers.ListCompanies(svcs.Companies, logg))
		r.Get("/{companyId}", controllers.GetCompany(svcs.Companies, logg))
		r.Get("/{companyId}/reviews", controllers.CompanyReviews(svcs.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Patch("/{companyId}", controllers.UpdateCompany(svcs.Companies, logg))
		})
	})
	r.Get("/api/v1/questions", controllers.ListQuestions(svcs.Questions, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.SubmitReview(svcs.Reviews, logg))
			r.Get("/mine", controllers.MyReviews(svcs.Reviews, logg))
		})
		r.Route("/claims", func(r chi.Router) {
			r.Post("/", controllers.SubmitClaim(svcs.Claims, logg))
			r.Get("/mine", controllers.MyClaims(svcs.Claims, logg))
		})
		r.Route("/attachments", func(r chi.Router) {
			r.Post("/presign", controllers.AttachmentPresign(svcs.Attachments, logg))
			r.Post("/{attachmentId}/finalize", controllers.AttachmentFinalize(svcs.Attachments, logg))
		})
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/claims", func(r chi.Router) {
			r.Get("/", controllers.AdminListClaims(svcs.Claims, logg))
			r.Post("/{claimId}/approve", controllers.AdminApproveClaim(svcs.Claims, logg))
			r.Post("/{claimId}/reject", controllers.AdminRejectClaim(svcs.Claims, logg))
			r.Post("/{claimId}/revoke", controllers.AdminRevokeClaim(svcs.Claims, logg))
		})
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminListReviews(svcs.Reviews, logg))
			r.Post("/{reviewId}/approve", controllers.AdminApproveReview(svcs.Reviews, logg))
			r.Post("/{reviewId}/reject", controllers.AdminRejectReview(svcs.Reviews, logg))
		})
		r.Post("/companies/{companyId}/certify", controllers.AdminCertifyCompany(svcs.Companies, logg))
		r.Get("/audit-log", controllers.AdminAuditLog(svcs.AuditLog, logg))
	})

	return r
}
