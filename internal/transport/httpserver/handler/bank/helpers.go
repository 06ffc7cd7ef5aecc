package bank

import (
	"errors"
	"net/http"

	bankdomain "finance-app-go/internal/domain/bank"
	"finance-app-go/internal/domain/mutation"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"finance-app-go/pkg/logger"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func writeDomainError(w http.ResponseWriter, log logger.Logger, action string, err error, args ...any) {
	var conflict *mutation.ConflictError
	if errors.As(err, &conflict) {
		log.BusinessError(action+": conflict", err, args...)
		current, _ := conflict.Current.(bankdomain.Balance)
		commonhandler.WriteConflict(w, "the bank amount was changed by someone else", toBalanceResponse(current))
		return
	}
	commonhandler.WriteDomainError(w, log, action, err, args...)
}

func currentGroup(groupID *int64) int64 {
	if groupID == nil {
		return 0
	}
	return *groupID
}
