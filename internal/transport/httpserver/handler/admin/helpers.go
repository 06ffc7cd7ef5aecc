package admin

import (
	"errors"
	"net/http"

	groupdomain "finance-app-go/internal/domain/group"
	userdomain "finance-app-go/internal/domain/user"
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
	switch {
	case errors.Is(err, groupdomain.ErrProtectedGroup):
		log.BusinessError(action+": protected group", err, args...)
		writeError(w, http.StatusForbidden, "protected_group", "the default group cannot be deleted")
	case errors.Is(err, userdomain.ErrProtectedUser):
		log.BusinessError(action+": protected user", err, args...)
		writeError(w, http.StatusForbidden, "protected_user", "the first administrator cannot be deleted or demoted")
	case errors.Is(err, groupdomain.ErrAlreadyMember):
		log.BusinessError(action+": already member", err, args...)
		writeError(w, http.StatusConflict, "already_member", "user already in group")
	case errors.Is(err, groupdomain.ErrMembershipNotFound):
		log.BusinessError(action+": membership not found", err, args...)
		writeError(w, http.StatusNotFound, "membership_not_found", "membership not found")
	case errors.Is(err, userdomain.ErrUserNotFound), errors.Is(err, groupdomain.ErrUserNotFound):
		log.BusinessError(action+": user not found", err, args...)
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, userdomain.ErrUsernameTaken):
		log.BusinessError(action+": username taken", err, args...)
		writeError(w, http.StatusConflict, "username_taken", "username already taken")
	default:
		commonhandler.WriteDomainError(w, log, action, err, args...)
	}
}
