package entries

import (
	"errors"
	"net/http"

	entriesdomain "finance-app-go/internal/domain/entries"
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
	switch {
	case errors.As(err, &conflict):
		log.BusinessError(action+": conflict", err, args...)
		snapshot, _ := conflict.Current.(entriesdomain.Snapshot)
		commonhandler.WriteConflict(w, "the entry was changed by someone else", toSnapshotResponse(snapshot))
	case errors.Is(err, entriesdomain.ErrEntryNotFound):
		log.BusinessError(action+": entry not found", err, args...)
		writeError(w, http.StatusNotFound, "entry_not_found", "entry not found")
	default:
		commonhandler.WriteDomainError(w, log, action, err, args...)
	}
}

func currentGroup(groupID *int64) int64 {
	if groupID == nil {
		return 0
	}
	return *groupID
}
