package common

import (
	"errors"
	"net/http"

	groupdomain "finance-app-go/internal/domain/group"
	"finance-app-go/internal/domain/validate"
	"finance-app-go/pkg/logger"
)

// WriteDomainError maps the errors every group-scoped endpoint shares. Anything unknown is
// logged and answered with an opaque 500.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, action string, err error, args ...any) {
	var invalid *validate.Error
	switch {
	case errors.As(err, &invalid):
		log.BusinessError(action+": invalid input", err, args...)
		WriteFieldError(w, invalid.Field, invalid.Message)
	case errors.Is(err, groupdomain.ErrNoGroup):
		log.BusinessError(action+": user has no group", err, args...)
		writeError(w, http.StatusForbidden, "no_group", "you are not a member of any group, contact an administrator")
	case errors.Is(err, groupdomain.ErrNotMember):
		log.BusinessError(action+": not a member", err, args...)
		writeError(w, http.StatusForbidden, "not_member", "not a member of this group")
	case errors.Is(err, groupdomain.ErrGroupNotFound):
		log.BusinessError(action+": group not found", err, args...)
		writeError(w, http.StatusNotFound, "group_not_found", "group not found")
	default:
		log.InternalError(action+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
