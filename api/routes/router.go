package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelierliu/renoquote-backend/api/controllers"
	"github.com/atelierliu/renoquote-backend/api/middleware"
	"github.com/atelierliu/renoquote-backend/internal/acceptance"
	"github.com/atelierliu/renoquote-backend/internal/attachments"
	"github.com/atelierliu/renoquote-backend/internal/auth"
	"github.com/atelierliu/renoquote-backend/internal/calendar"
	"github.com/atelierliu/renoquote-backend/internal/clients"
	"github.com/atelierliu/renoquote-backend/internal/quotes"
	"github.com/atelierliu/renoquote-backend/internal/users"
	"github.com/atelierliu/renoquote-backend/pkg/auth/session"
	"github.com/atelierliu/renoquote-backend/pkg/config"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
	"github.com/atelierliu/renoquote-backend/pkg/metrics"
	"github.com/atelierliu/renoquote-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	healthDeps map[string]controllers.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	accounts middleware.AccountSource,
	authService auth.Service,
	registerService auth.RegisterService,
	quoteService quotes.Service,
	attachmentService attachments.Service,
	acceptanceService acceptance.Service,
	calendarService calendar.Service,
	clientService clients.Service,
	userService users.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(nil),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	authn := middleware.Auth(cfg.JWT, sessionChecker, accounts, logg)

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

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/v1/quotes/{quoteID}", func(r chi.Router) {
			r.Use(middleware.ShareAccess(quoteService, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Get("/", controllers.PublicQuoteDetail(quoteService, logg))
			r.Post("/confirm", controllers.PublicQuoteConfirm(quoteService, logg))
			r.Post("/signature/presign", controllers.PublicQuoteSignaturePresign(quoteService, logg))
			r.Post("/signature", controllers.PublicQuoteSignatureAttach(quoteService, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(authn).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/quotes", func(r chi.Router) {
			r.Post("/", controllers.QuoteCreate(quoteService, logg))
			r.Get("/", controllers.QuoteList(quoteService, logg))

			r.Route("/{quoteID}", func(r chi.Router) {
				r.Get("/", controllers.QuoteDetail(quoteService, logg))
				r.Put("/items", controllers.QuoteUpdateItems(quoteService, logg))
				r.Put("/details", controllers.QuoteUpdateDetails(quoteService, logg))
				r.Delete("/", controllers.QuoteDelete(quoteService, logg))

				r.Post("/versions", controllers.QuoteSaveVersion(quoteService, logg))
				r.Get("/versions", controllers.QuoteVersions(quoteService, logg))
				r.Post("/versions/{versionID}/restore", controllers.QuoteRestoreVersion(quoteService, logg))

				r.Post("/confirm", controllers.QuoteConfirm(quoteService, logg))
				r.Post("/signature/presign", controllers.QuoteSignaturePresign(quoteService, logg))
				r.Post("/signature", controllers.QuoteSignatureAttach(quoteService, logg))

				r.Post("/share", controllers.QuoteShareCreate(quoteService, logg))
				r.Post("/share/revoke", controllers.QuoteShareRevoke(quoteService, logg))

				r.Route("/acceptance", func(r chi.Router) {
					r.Use(middleware.RequireModule(enums.FeatureAcceptance, logg))
					r.Post("/presign", controllers.AcceptancePresignBatch(acceptanceService, quoteService, logg))
					r.Get("/", controllers.AcceptanceList(acceptanceService, quoteService, logg))
					r.Delete("/{photoID}", controllers.AcceptanceDelete(acceptanceService, logg))
				})
			})
		})

		r.Route("/v1/attachments", func(r chi.Router) {
			r.Post("/presign", controllers.AttachmentPresignBatch(attachmentService, logg))
			r.Get("/", controllers.AttachmentList(attachmentService, logg))
			r.Patch("/{attachmentID}", controllers.AttachmentUpdate(attachmentService, logg))
			r.Delete("/{attachmentID}", controllers.AttachmentDelete(attachmentService, logg))
		})

		r.Route("/v1/calendar", func(r chi.Router) {
			r.Use(middleware.RequireModule(enums.FeatureCalendar, logg))
			r.Post("/", controllers.CalendarTaskCreate(calendarService, logg))
			r.Get("/", controllers.CalendarTaskList(calendarService, logg))
			r.Put("/{taskID}", controllers.CalendarTaskUpdate(calendarService, logg))
			r.Delete("/{taskID}", controllers.CalendarTaskDelete(calendarService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(userService, logg))
			r.Put("/{userID}/role", controllers.AdminUserSetRole(userService, logg))
			r.Put("/{userID}/plan", controllers.AdminUserSetPlan(userService, logg))
		})

		r.Route("/v1/quotes", func(r chi.Router) {
			r.Get("/", controllers.QuoteList(quoteService, logg))
			r.Delete("/{quoteID}", controllers.QuoteDelete(quoteService, logg))
		})

		r.Route("/v1/clients", func(r chi.Router) {
			r.Post("/", controllers.ClientCreate(clientService, logg))
			r.Get("/", controllers.ClientList(clientService, logg))
			r.Get("/{clientID}", controllers.ClientDetail(clientService, logg))
			r.Put("/{clientID}", controllers.ClientUpdate(clientService, logg))
			r.Delete("/{clientID}", controllers.ClientDelete(clientService, logg))
		})
	})

	return r
}
