package bank

import (
	"context"
	"time"

	bankdomain "finance-app-go/internal/domain/bank"
	"finance-app-go/internal/repository/inmemory"
	"finance-app-go/pkg/logger"
)

// Hub registers live viewers of a group's bank amount.
type Hub interface {
	Subscribe(groupID int64) *inmemory.Subscription
	Unsubscribe(sub *inmemory.Subscription)
}

type Service interface {
	Current(ctx context.Context, groupID int64) (*bankdomain.Balance, error)
	Set(ctx context.Context, userID, groupID int64, input bankdomain.SetInput) (*bankdomain.Result, error)
	ForceSet(ctx context.Context, userID, groupID int64, input bankdomain.SetInput) (*bankdomain.Result, error)
	Adjust(ctx context.Context, userID, groupID int64, input bankdomain.AdjustInput) (*bankdomain.Result, error)
	History(ctx context.Context, groupID int64, limit int) (*bankdomain.History, error)
}

type Handlers struct {
	Bank      Service
	hub       Hub
	heartbeat time.Duration
	log       logger.Logger
}

func New(bank Service, hub Hub, heartbeat time.Duration, log logger.Logger) *Handlers {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Handlers{
		Bank:      bank,
		hub:       hub,
		heartbeat: heartbeat,
		log:       log,
	}
}
