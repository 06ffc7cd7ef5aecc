package admin

import (
	authdomain "finance-app-go/internal/domain/auth"
	groupdomain "finance-app-go/internal/domain/group"
	sessiondomain "finance-app-go/internal/domain/session"
	settingsdomain "finance-app-go/internal/domain/settings"
	userdomain "finance-app-go/internal/domain/user"
	"finance-app-go/pkg/logger"
)

type Handlers struct {
	Auth         *authdomain.Service
	Sessions     *sessiondomain.Service
	Users        *userdomain.Service
	Groups       *groupdomain.Service
	Settings     *settingsdomain.Service
	cookieSecure bool
	log          logger.Logger
}

func New(
	auth *authdomain.Service,
	sessions *sessiondomain.Service,
	users *userdomain.Service,
	groups *groupdomain.Service,
	settings *settingsdomain.Service,
	cookieSecure bool,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Auth:         auth,
		Sessions:     sessions,
		Users:        users,
		Groups:       groups,
		Settings:     settings,
		cookieSecure: cookieSecure,
		log:          log,
	}
}
