package bank

import (
	"encoding/json"
	"time"

	bankdomain "finance-app-go/internal/domain/bank"
	"finance-app-go/internal/domain/mutation"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"github.com/shopspring/decimal"
)

const (
	operationSet    = "set"
	operationAdjust = "adjust"
)

type mutateRequest struct {
	Operation string           `json:"operation"`
	Amount    *decimal.Decimal `json:"amount"`
	Delta     *decimal.Decimal `json:"delta"`
	Baseline  *decimal.Decimal `json:"baseline"`
	Note      *string          `json:"note"`
}

type forceRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Note   *string          `json:"note"`
}

type balanceResponse struct {
	Amount            json.Number `json:"amount"`
	UpdatedAt         *time.Time  `json:"updated_at"`
	LastUpdatedUserID *int64      `json:"last_updated_user_id"`
}

type noGroupResponse struct {
	Amount json.Number `json:"amount"`
	Code   string      `json:"code"`
}

type mutateResponse struct {
	Status mutation.Status `json:"status"`
	balanceResponse
}

type historyItemResponse struct {
	ID        int64       `json:"id"`
	UserID    *int64      `json:"user_id"`
	OldAmount json.Number `json:"old_amount"`
	NewAmount json.Number `json:"new_amount"`
	Delta     json.Number `json:"delta"`
	Note      *string     `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}

type historyResponse struct {
	Enabled bool                  `json:"enabled"`
	Items   []historyItemResponse `json:"items"`
}

type streamEvent struct {
	Amount        json.Number               `json:"amount"`
	OperationType *bankdomain.OperationType `json:"operationType"`
	UserID        *int64                    `json:"user_id,omitempty"`
	UpdatedAt     *time.Time                `json:"updated_at,omitempty"`
}

func toBalanceResponse(balance bankdomain.Balance) balanceResponse {
	return balanceResponse{
		Amount:            commonhandler.Amount(balance.Amount),
		UpdatedAt:         balance.UpdatedAt,
		LastUpdatedUserID: balance.LastUpdatedUserID,
	}
}

func toMutateResponse(result *bankdomain.Result) mutateResponse {
	return mutateResponse{
		Status:          result.Status,
		balanceResponse: toBalanceResponse(result.Balance),
	}
}

func toHistoryResponse(history *bankdomain.History) historyResponse {
	items := make([]historyItemResponse, 0, len(history.Items))
	for _, item := range history.Items {
		items = append(items, historyItemResponse{
			ID:        item.ID,
			UserID:    item.UserID,
			OldAmount: commonhandler.Amount(item.OldAmount),
			NewAmount: commonhandler.Amount(item.NewAmount),
			Delta:     commonhandler.Amount(item.Delta),
			Note:      item.Note,
			CreatedAt: item.CreatedAt,
		})
	}
	return historyResponse{Enabled: history.Enabled, Items: items}
}

func toStreamEvent(event bankdomain.Event) streamEvent {
	userID := event.UserID
	updatedAt := event.UpdatedAt
	return streamEvent{
		Amount:        commonhandler.Amount(event.Amount),
		OperationType: event.OperationType,
		UserID:        &userID,
		UpdatedAt:     &updatedAt,
	}
}

func snapshotEvent(balance bankdomain.Balance) streamEvent {
	return streamEvent{
		Amount:    commonhandler.Amount(balance.Amount),
		UserID:    balance.LastUpdatedUserID,
		UpdatedAt: balance.UpdatedAt,
	}
}
