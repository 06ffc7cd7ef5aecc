package entries

import (
	"errors"
	"net/http"
	"time"

	entriesdomain "finance-app-go/internal/domain/entries"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

var errMissingValue = errors.New("value is required")

func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	year, err := commonhandler.ParseIntParam(r.URL.Query().Get("year"), time.Now().UTC().Year())
	if err != nil {
		commonhandler.WriteFieldError(w, "year", "year must be a number")
		return
	}

	groupID := currentGroup(user.CurrentGroupID)
	items, err := h.Entries.List(r.Context(), user.ID, groupID, year)
	if err != nil {
		writeDomainError(w, h.log, "entries.list", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Year: year, Items: toEntryResponses(items)})
}

func (h *Handlers) SaveEntries(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if len(req.Entries) == 0 {
		commonhandler.WriteFieldError(w, "entries", "at least one entry is required")
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	inputs := make([]entriesdomain.SaveInput, 0, len(req.Entries))
	for _, item := range req.Entries {
		inputs = append(inputs, item.toInput())
	}

	groupID := currentGroup(user.CurrentGroupID)
	saved, err := h.Entries.Save(r.Context(), user.ID, groupID, inputs)
	if err != nil {
		writeDomainError(w, h.log, "entries.save", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]entryResponse{"items": toEntryResponses(saved)})
}

func (h *Handlers) PatchEntry(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, false)
}

func (h *Handlers) ForcePatchEntry(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, true)
}

func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	entryID, err := commonhandler.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid entry id")
		return
	}

	groupID := currentGroup(user.CurrentGroupID)
	if err := h.Entries.Delete(r.Context(), user.ID, groupID, entryID); err != nil {
		writeDomainError(w, h.log, "entries.delete", err, "user_id", user.ID, "entry_id", entryID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) patch(w http.ResponseWriter, r *http.Request, force bool) {
	entryID, err := commonhandler.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid entry id")
		return
	}

	var req patchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	input, field, err := req.toInput()
	if err != nil {
		commonhandler.WriteFieldError(w, field, "invalid "+field)
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	groupID := currentGroup(user.CurrentGroupID)

	action := "entries.patch"
	var result *entriesdomain.PatchResult
	if force {
		action = "entries.force_patch"
		result, err = h.Entries.ForcePatch(r.Context(), user.ID, groupID, entryID, input)
	} else {
		result, err = h.Entries.Patch(r.Context(), user.ID, groupID, entryID, input)
	}
	if err != nil {
		writeDomainError(w, h.log, action, err, "user_id", user.ID, "entry_id", entryID, "field", input.Field)
		return
	}

	writeJSON(w, http.StatusOK, patchResponse{Status: string(result.Status), Entry: toEntryResponse(result.Entry)})
}
