package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otp-dashboard/internal/application/analytics"
	"github.com/otp-dashboard/internal/application/otp"
	"github.com/otp-dashboard/internal/config"
	jwtinfra "github.com/otp-dashboard/internal/infrastructure/jwt"
	"github.com/otp-dashboard/internal/transport/http/handler"
	appmiddleware "github.com/otp-dashboard/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	Mailer      Mailer
	JWTProvider *jwtinfra.Provider
	Products    ProductSource
}

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of background work owned by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)
	dashboardMw := authMw
	if !cfg.DashboardRequireAuth {
		dashboardMw = func(next http.Handler) http.Handler { return next }
	}

	authRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	otpSvc := otp.NewService(otp.ServiceDeps{
		UserRepo: deps.UserRepo,
		Mailer:   deps.Mailer,
		Signer:   deps.JWTProvider,
		AppName:  cfg.AppName,
	})
	analyticsSvc := analytics.NewService(deps.Products)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(otpSvc, cfg.IsProduction(), cfg.JWTExpiry)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Check)

		r.Route("/auth", func(r chi.Router) {
			r.With(authRL.Limit).Post("/send-otp", authH.SendOTP)
			r.With(authRL.Limit).Post("/resend-otp", authH.ResendOTP)
			r.With(authRL.Limit).Post("/verify-otp", authH.VerifyOTP)
			r.With(authMw).Get("/me", authH.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(dashboardMw)

			r.Get("/analytics/dashboard", analyticsH.Dashboard)
			r.Get("/products", analyticsH.Products)
		})
	})

	return r
}
