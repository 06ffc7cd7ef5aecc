package app

import (
	"net/http"

	"finance-app-go/internal/config"
	authdomain "finance-app-go/internal/domain/auth"
	bankdomain "finance-app-go/internal/domain/bank"
	entriesdomain "finance-app-go/internal/domain/entries"
	groupdomain "finance-app-go/internal/domain/group"
	sessiondomain "finance-app-go/internal/domain/session"
	settingsdomain "finance-app-go/internal/domain/settings"
	userdomain "finance-app-go/internal/domain/user"
	"finance-app-go/internal/repository/inmemory"
	bankrepo "finance-app-go/internal/repository/postgres/bank"
	entriesrepo "finance-app-go/internal/repository/postgres/entries"
	grouprepo "finance-app-go/internal/repository/postgres/group"
	sessionrepo "finance-app-go/internal/repository/postgres/session"
	settingsrepo "finance-app-go/internal/repository/postgres/settings"
	userrepo "finance-app-go/internal/repository/postgres/user"
	"finance-app-go/internal/transport/httpserver"
	"finance-app-go/internal/transport/httpserver/handler"
	"finance-app-go/internal/transport/httpserver/handler/account"
	"finance-app-go/internal/transport/httpserver/handler/admin"
	bankhandler "finance-app-go/internal/transport/httpserver/handler/bank"
	"finance-app-go/internal/transport/httpserver/handler/common"
	entrieshandler "finance-app-go/internal/transport/httpserver/handler/entries"
	"finance-app-go/internal/transport/httpserver/middleware"
	"finance-app-go/pkg/logger"
	"gorm.io/gorm"
)

// Services is the wired domain layer. The HTTP server, the operator CLI and the integration tests
// all build it the same way.
type Services struct {
	Users    *userdomain.Service
	Groups   *groupdomain.Service
	Sessions *sessiondomain.Service
	Settings *settingsdomain.Service
	Auth     *authdomain.Service
	Bank     *bankdomain.Service
	Entries  *entriesdomain.Service
	Hub      *inmemory.BankHub
}

func NewServices(cfg config.Config, gormDB *gorm.DB) *Services {
	users := userrepo.NewPostgres(gormDB)
	groups := grouprepo.NewPostgres(gormDB)

	hub := inmemory.NewBankHub(cfg.Stream.Buffer)
	groupService := groupdomain.NewService(groups)
	settingsService := settingsdomain.NewService(settingsrepo.NewPostgres(gormDB), inmemory.NewSettingsCache(), cfg.Settings.CacheTTL)
	sessionService := sessiondomain.NewService(
		sessionrepo.NewPostgres(gormDB),
		users,
		groups,
		sessiondomain.WithTTL(cfg.Session.TTL, cfg.Session.AdminTTL),
	)

	return &Services{
		Users:    userdomain.NewService(users),
		Groups:   groupService,
		Sessions: sessionService,
		Settings: settingsService,
		Auth:     authdomain.NewService(users, sessionService, settingsService, groupService, authdomain.NewHasher(0)),
		Bank:     bankdomain.NewService(bankrepo.NewPostgres(gormDB), groupService, settingsService, hub),
		Entries:  entriesdomain.NewService(entriesrepo.NewPostgres(gormDB), groupService),
		Hub:      hub,
	}
}

// Router builds the HTTP API on top of the services. pinger backs the health check and may be
// nil.
func (s *Services) Router(cfg config.Config, pinger common.Pinger, log logger.Logger) http.Handler {
	secure := cfg.Session.CookieSecure
	handlers := handler.New(
		common.New(pinger, log),
		account.New(s.Auth, s.Sessions, s.Users, secure, log),
		bankhandler.New(s.Bank, s.Hub, cfg.Stream.Heartbeat, log),
		entrieshandler.New(s.Entries, log),
		admin.New(s.Auth, s.Sessions, s.Users, s.Groups, s.Settings, secure, log),
	)
	auth := middleware.NewSessionAuth(s.Sessions, log)
	return httpserver.NewRouter(cfg, handlers, auth, log)
}
