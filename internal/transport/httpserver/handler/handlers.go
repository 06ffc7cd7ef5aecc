package handler

import (
	"finance-app-go/internal/transport/httpserver/handler/account"
	"finance-app-go/internal/transport/httpserver/handler/admin"
	"finance-app-go/internal/transport/httpserver/handler/bank"
	"finance-app-go/internal/transport/httpserver/handler/common"
	"finance-app-go/internal/transport/httpserver/handler/entries"
)

type Handlers struct {
	Common  *common.Handlers
	Account *account.Handlers
	Bank    *bank.Handlers
	Entries *entries.Handlers
	Admin   *admin.Handlers
}

func New(commonHandlers *common.Handlers, accountHandlers *account.Handlers, bankHandlers *bank.Handlers, entriesHandlers *entries.Handlers, adminHandlers *admin.Handlers) *Handlers {
	return &Handlers{
		Common:  commonHandlers,
		Account: accountHandlers,
		Bank:    bankHandlers,
		Entries: entriesHandlers,
		Admin:   adminHandlers,
	}
}
