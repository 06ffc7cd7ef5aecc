package account

import (
	"net/http"

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
	commonhandler.WriteDomainError(w, log, action, err, args...)
}
