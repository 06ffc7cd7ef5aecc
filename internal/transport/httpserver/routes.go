package httpserver

import (
	"net/http"
	"time"

	"finance-app-go/internal/config"
	"finance-app-go/internal/transport/httpserver/handler"
	authmw "finance-app-go/internal/transport/httpserver/middleware"
	"finance-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.SessionAuth, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	loginLimiter := authmw.NewRateLimiter("login", cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, log)
	registerLimiter := authmw.NewRateLimiter("register", cfg.RateLimit.RegisterLimit, cfg.RateLimit.RegisterWindow, log)
	adminLimiter := authmw.NewRateLimiter("admin_login", cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, log)

	r.Route("/api", func(r chi.Router) {
		// The event stream is long-lived and stays outside the request timeout.
		r.With(auth.Middleware).Get("/bank-amount/stream", handlers.Bank.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Get("/health", handlers.Common.Health)

			r.With(loginLimiter.Middleware).Post("/auth/login", handlers.Account.Login)
			r.With(registerLimiter.Middleware).Post("/auth/register", handlers.Account.Register)
			r.Post("/auth/logout", handlers.Account.Logout)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Get("/auth/session", handlers.Account.Session)
				r.Post("/switch-group", handlers.Account.SwitchGroup)

				r.Get("/user/preferences", handlers.Account.GetPreferences)
				r.Patch("/user/preferences", handlers.Account.UpdatePreferences)
				r.Post("/user/password", handlers.Account.ChangePassword)
				r.Get("/user/sessions", handlers.Account.ListSessions)
				r.Delete("/user/sessions", handlers.Account.RevokeOtherSessions)
				r.Delete("/user/sessions/{id}", handlers.Account.RevokeSession)

				r.Get("/bank-amount", handlers.Bank.GetAmount)
				r.Post("/bank-amount", handlers.Bank.UpdateAmount)
				r.Post("/bank-amount/force", handlers.Bank.ForceAmount)
				r.Get("/bank-amount/history", handlers.Bank.History)

				r.Get("/entries", handlers.Entries.ListEntries)
				r.Post("/entries", handlers.Entries.SaveEntries)
				r.Patch("/entries/{id}", handlers.Entries.PatchEntry)
				r.Patch("/entries/{id}/force", handlers.Entries.ForcePatchEntry)
				r.Delete("/entries/{id}", handlers.Entries.DeleteEntry)
			})

			r.Route("/admin", func(r chi.Router) {
				r.With(adminLimiter.Middleware).Post("/login", handlers.Admin.Login)
				r.Post("/logout", handlers.Admin.Logout)

				r.Group(func(r chi.Router) {
					r.Use(auth.Admin)

					r.Get("/session", handlers.Admin.Session)

					r.Get("/settings", handlers.Admin.GetSettings)
					r.Post("/settings", handlers.Admin.UpdateSettings)

					r.Get("/groups", handlers.Admin.ListGroups)
					r.Post("/groups", handlers.Admin.CreateGroup)
					r.Patch("/groups/{id}", handlers.Admin.RenameGroup)
					r.Delete("/groups/{id}", handlers.Admin.DeleteGroup)

					r.Get("/user-groups", handlers.Admin.ListMemberships)
					r.Post("/user-groups", handlers.Admin.AddMembership)
					r.Delete("/user-groups", handlers.Admin.RemoveMembership)

					r.Get("/users", handlers.Admin.ListUsers)
					r.Post("/users", handlers.Admin.CreateUser)
					r.Patch("/users/{id}", handlers.Admin.UpdateUser)
					r.Delete("/users/{id}", handlers.Admin.DeleteUser)
				})
			})
		})
	})

	return r
}
