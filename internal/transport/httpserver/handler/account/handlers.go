package account

import (
	authdomain "finance-app-go/internal/domain/auth"
	sessiondomain "finance-app-go/internal/domain/session"
	userdomain "finance-app-go/internal/domain/user"
	"finance-app-go/pkg/logger"
)

type Handlers struct {
	Auth         *authdomain.Service
	Sessions     *sessiondomain.Service
	Users        *userdomain.Service
	cookieSecure bool
	log          logger.Logger
}

func New(auth *authdomain.Service, sessions *sessiondomain.Service, users *userdomain.Service, cookieSecure bool, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:         auth,
		Sessions:     sessions,
		Users:        users,
		cookieSecure: cookieSecure,
		log:          log,
	}
}
