package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/laundry-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/laundry-backend/api/controllers/orders"
	"github.com/angelmondragon/laundry-backend/api/middleware"
	"github.com/angelmondragon/laundry-backend/internal/address"
	"github.com/angelmondragon/laundry-backend/internal/auth"
	"github.com/angelmondragon/laundry-backend/internal/customers"
	"github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/internal/promo"
	"github.com/angelmondragon/laundry-backend/internal/reports"
	"github.com/angelmondragon/laundry-backend/internal/users"
	"github.com/angelmondragon/laundry-backend/pkg/auth/session"
	"github.com/angelmondragon/laundry-backend/pkg/config"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/laundry-backend/pkg/redis"
)

// redisStore is the slice of the redis client the HTTP layer touches.
type redisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, time.Duration, error)
	Ping(ctx context.Context) error
}

// Params carries everything NewRouter wires. Redis, Address and Registry
// may be nil; the routes that need them degrade instead of failing to mount.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Location *time.Location
	Registry *prometheus.Registry
	DB       controllers.Pinger
	Redis    redisStore
	Sessions session.AccessSessionChecker

	Auth      auth.Service
	Orders    orders.Service
	Users     users.Service
	Customers customers.Service
	Reports   reports.Service
	Promo     promo.Service
	Address   address.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	var httpMetrics *metrics.HTTPMetrics
	if p.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(p.Registry)
	}

	var (
		limiter interface {
			FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, time.Duration, error)
		}
		idempotencyStore pkgredis.IdempotencyStore
	)
	readiness := map[string]controllers.Pinger{}
	if p.DB != nil {
		readiness["db"] = p.DB
	}
	if p.Redis != nil {
		limiter = p.Redis
		idempotencyStore = p.Redis
		readiness["redis"] = p.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	intakePolicy := middleware.NewRateLimitPolicy("intake", cfg.Intake.Window, cfg.Intake.IPLimit, 0)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Registry))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/statuses", controllers.Statuses(p.Orders, logg))
		r.Get("/promo", controllers.PromoGet(p.Promo, logg))
		r.Get("/address/suggest", controllers.AddressSuggest(p.Address, logg))
		r.Post("/address/resolve", controllers.AddressResolve(p.Address, logg))

		r.With(
			middleware.RateLimit(intakePolicy, limiter, logg),
			middleware.Idempotency(idempotencyStore, logg),
		).Post("/orders", ordercontrollers.Create(p.Orders, loc, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(p.Auth, cfg.JWT, logg))
			r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/google", controllers.AuthGoogle(p.Auth, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.Auth, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Get("/users/me", controllers.UserMe(p.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(middleware.Policy{Roles: middleware.AdminRoles}, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Put("/update", ordercontrollers.Update(p.Orders, loc, logg))
					r.Put("/confirm", ordercontrollers.Confirm(p.Orders, logg))
					r.Get("/list", ordercontrollers.AssignmentQueue(p.Orders, logg))
					r.Get("/{orderId}/logs", ordercontrollers.Logs(p.Orders, logg))
				})
				r.Get("/logs", ordercontrollers.Logs(p.Orders, logg))

				r.Get("/tasks", ordercontrollers.AdminTasks(p.Orders, loc, logg))
				r.Put("/tasks", ordercontrollers.AdminTaskUpdate(p.Orders, logg))
				r.Get("/couriers", controllers.CouriersList(p.Users, logg))

				r.Route("/customers", func(r chi.Router) {
					r.Get("/", controllers.CustomersList(p.Customers, logg))
					r.Put("/", controllers.CustomerUpdate(p.Customers, logg))
					r.Delete("/", controllers.CustomerDelete(p.Customers, logg))
				})

				r.Put("/promo", controllers.PromoUpdate(p.Promo, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(middleware.Policy{Roles: middleware.SuperAdminRoles}, logg))

				r.Route("/users", func(r chi.Router) {
					r.Get("/", controllers.UsersList(p.Users, logg))
					r.Post("/", controllers.UserCreate(p.Users, logg))
					r.Put("/", controllers.UserUpdate(p.Users, logg))
					r.Delete("/", controllers.UserDelete(p.Users, logg))
				})
				r.Get("/reports", controllers.Reports(p.Reports, loc, logg))
			})

			r.Route("/kurir", func(r chi.Router) {
				r.With(middleware.Authorize(middleware.Policy{Roles: middleware.CourierRoles}, logg)).
					Get("/tasks", ordercontrollers.CourierTasks(p.Orders, logg))
				r.With(middleware.Authorize(middleware.Policy{
					Roles:      middleware.CourierRoles,
					Owner:      middleware.CourierOwnsOrder(p.Orders),
					OwnerRoles: middleware.CourierRoles,
				}, logg)).Put("/tasks", ordercontrollers.CourierTaskUpdate(p.Orders, logg))
				r.With(middleware.Authorize(middleware.Policy{Roles: middleware.CourierRoles}, logg)).
					Get("/report", ordercontrollers.CourierReport(p.Orders, loc, logg))
			})
		})
	})

	return r
}
