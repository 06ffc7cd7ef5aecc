package admin

import (
	"net/http"
	"strconv"

	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Groups.ListGroups(r.Context())
	if err != nil {
		h.log.InternalError("admin.groups.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]groupResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, toGroupResponse(summary.Group, summary.MemberCount))
	}
	writeJSON(w, http.StatusOK, listResponse[groupResponse]{Items: items})
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Groups.CreateGroup(r.Context(), req.Name, nil)
	if err != nil {
		writeDomainError(w, h.log, "admin.groups.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(*created, 0))
}

func (h *Handlers) RenameGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := commonhandler.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Groups.RenameGroup(r.Context(), groupID, req.Name)
	if err != nil {
		writeDomainError(w, h.log, "admin.groups.rename", err, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(*updated, 0))
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := commonhandler.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid group id")
		return
	}

	if err := h.Groups.DeleteGroup(r.Context(), groupID); err != nil {
		writeDomainError(w, h.log, "admin.groups.delete", err, "group_id", groupID)
		return
	}

	h.log.Info("admin.groups.delete: deleted", "group_id", groupID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMemberships(w http.ResponseWriter, r *http.Request) {
	views, err := h.Groups.ListMemberships(r.Context())
	if err != nil {
		h.log.InternalError("admin.user_groups.list: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]membershipResponse, 0, len(views))
	for _, view := range views {
		items = append(items, membershipResponse{
			UserID:    view.UserID,
			Username:  view.Username,
			GroupID:   view.GroupID,
			GroupName: view.GroupName,
			JoinedAt:  view.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, listResponse[membershipResponse]{Items: items})
}

func (h *Handlers) AddMembership(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.UserID <= 0 || req.GroupID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id and group_id are required")
		return
	}

	membership, err := h.Groups.AssignUser(r.Context(), req.UserID, req.GroupID)
	if err != nil {
		writeDomainError(w, h.log, "admin.user_groups.add", err, "user_id", req.UserID, "group_id", req.GroupID)
		return
	}

	writeJSON(w, http.StatusCreated, membershipResponse{
		UserID:   membership.UserID,
		GroupID:  membership.GroupID,
		JoinedAt: membership.JoinedAt,
	})
}

// RemoveMembership takes user_id and group_id from the query string.
func (h *Handlers) RemoveMembership(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, err := strconv.ParseInt(query.Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}
	groupID, err := strconv.ParseInt(query.Get("group_id"), 10, 64)
	if err != nil || groupID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "group_id is required")
		return
	}

	if err := h.Groups.RemoveUser(r.Context(), userID, groupID); err != nil {
		writeDomainError(w, h.log, "admin.user_groups.remove", err, "user_id", userID, "group_id", groupID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
