package bank

import (
	"errors"
	"net/http"
	"strings"

	bankdomain "finance-app-go/internal/domain/bank"
	groupdomain "finance-app-go/internal/domain/group"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"github.com/shopspring/decimal"
)

// GetAmount answers a user without any group with a zero amount and the no_group code instead of
// an error, so the page can render its blocking state.
func (h *Handlers) GetAmount(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	balance, err := h.Bank.Current(r.Context(), currentGroup(user.CurrentGroupID))
	if err != nil {
		if errors.Is(err, groupdomain.ErrNoGroup) {
			writeJSON(w, http.StatusOK, noGroupResponse{Amount: commonhandler.Amount(decimal.Zero), Code: "no_group"})
			return
		}
		writeDomainError(w, h.log, "bank.get", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(*balance))
}

func (h *Handlers) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	var req mutateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	groupID := currentGroup(user.CurrentGroupID)

	var (
		result *bankdomain.Result
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(req.Operation)) {
	case "", operationSet:
		if req.Amount == nil {
			commonhandler.WriteFieldError(w, "amount", "amount is required")
			return
		}
		result, err = h.Bank.Set(r.Context(), user.ID, groupID, bankdomain.SetInput{
			Amount:   *req.Amount,
			Baseline: req.Baseline,
			Note:     req.Note,
		})
	case operationAdjust:
		if req.Delta == nil {
			commonhandler.WriteFieldError(w, "delta", "delta is required")
			return
		}
		result, err = h.Bank.Adjust(r.Context(), user.ID, groupID, bankdomain.AdjustInput{
			Delta: *req.Delta,
			Note:  req.Note,
		})
	default:
		commonhandler.WriteFieldError(w, "operation", "operation must be set or adjust")
		return
	}
	if err != nil {
		writeDomainError(w, h.log, "bank.update", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toMutateResponse(result))
}

func (h *Handlers) ForceAmount(w http.ResponseWriter, r *http.Request) {
	var req forceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Amount == nil {
		commonhandler.WriteFieldError(w, "amount", "amount is required")
		return
	}

	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}
	groupID := currentGroup(user.CurrentGroupID)

	result, err := h.Bank.ForceSet(r.Context(), user.ID, groupID, bankdomain.SetInput{
		Amount: *req.Amount,
		Note:   req.Note,
	})
	if err != nil {
		writeDomainError(w, h.log, "bank.force", err, "user_id", user.ID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toMutateResponse(result))
}

func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	user, ok := commonhandler.CurrentUser(w, r)
	if !ok {
		return
	}

	limit, err := commonhandler.ParseIntParam(r.URL.Query().Get("limit"), bankdomain.DefaultHistoryLimit)
	if err != nil {
		commonhandler.WriteFieldError(w, "limit", "limit must be a non-negative integer")
		return
	}

	history, err := h.Bank.History(r.Context(), currentGroup(user.CurrentGroupID), limit)
	if err != nil {
		writeDomainError(w, h.log, "bank.history", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toHistoryResponse(history))
}
