package bank

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
)

// Stream pushes the group's bank amount as server-sent events: one snapshot on connect, then an
// amount event per committed change and a comment frame every heartbeat. The subscription is
// dropped when the client goes away, a write fails or the hub evicts a slow reader.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	if user.CurrentGroupID == nil {
		writeError(w, http.StatusForbidden, "no_group", "you are not a member of any group, contact an administrator")
		return
	}
	groupID := *user.CurrentGroupID

	// Subscribe before reading the snapshot so a change committed in between is still delivered.
	sub := h.hub.Subscribe(groupID)
	defer h.hub.Unsubscribe(sub)

	balance, err := h.Bank.Current(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, h.log, "bank.stream", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	rc := http.NewResponseController(w)
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, "snapshot", snapshotEvent(*balance)); err != nil {
		h.log.Debug("bank.stream: initial write failed", "user_id", user.ID, "err", err)
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Done():
			h.log.Debug("bank.stream: subscription dropped", "user_id", user.ID, "group_id", groupID)
			return
		case event := <-sub.Events():
			if err := writeEvent(w, rc, "amount", toStreamEvent(event)); err != nil {
				h.log.Debug("bank.stream: write failed", "user_id", user.ID, "err", err)
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return rc.Flush()
}
