package admin

import (
	"net/http"

	authdomain "finance-app-go/internal/domain/auth"
	userdomain "finance-app-go/internal/domain/user"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.log.InternalError("admin.users.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	writeJSON(w, http.StatusOK, listResponse[userResponse]{Items: items})
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Auth.CreateUser(r.Context(), authdomain.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
		GroupID:  req.GroupID,
	})
	if err != nil {
		writeDomainError(w, h.log, "admin.users.create", err, "username", req.Username)
		return
	}

	h.log.Info("admin.users.create: created", "user_id", created.ID, "username", created.Username)
	writeJSON(w, http.StatusCreated, toUserResponse(*created))
}

// UpdateUser toggles the admin flag and/or resets the password. A reset signs the user out
// everywhere. The flag change is checked first so a refused demotion leaves the password alone.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := commonhandler.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.IsAdmin == nil && req.Password == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	if req.IsAdmin != nil {
		if err := userdomain.CheckAdminChange(userID, *req.IsAdmin); err != nil {
			writeDomainError(w, h.log, "admin.users.set_admin", err, "user_id", userID)
			return
		}
	}

	if req.Password != nil {
		if err := h.Auth.ResetPassword(r.Context(), userID, *req.Password); err != nil {
			writeDomainError(w, h.log, "admin.users.reset_password", err, "user_id", userID)
			return
		}
		h.log.Info("admin.users.reset_password: done", "user_id", userID)
	}

	if req.IsAdmin != nil {
		if _, err := h.Users.SetAdmin(r.Context(), userID, *req.IsAdmin); err != nil {
			writeDomainError(w, h.log, "admin.users.set_admin", err, "user_id", userID)
			return
		}
	}

	updated, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.log, "admin.users.update", err, "user_id", userID)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*updated))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := commonhandler.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid user id")
		return
	}

	if err := h.Users.Delete(r.Context(), userID); err != nil {
		writeDomainError(w, h.log, "admin.users.delete", err, "user_id", userID)
		return
	}

	h.log.Info("admin.users.delete: deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
