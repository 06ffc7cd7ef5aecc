package entries

import (
	"encoding/json"
	"strings"
	"time"

	entriesdomain "finance-app-go/internal/domain/entries"
	commonhandler "finance-app-go/internal/transport/httpserver/handler/common"
	"github.com/shopspring/decimal"
)

type amountRequest struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type entryRequest struct {
	ID      *int64          `json:"id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Amounts []amountRequest `json:"amounts"`
}

type saveRequest struct {
	Entries []entryRequest `json:"entries"`
}

// patchRequest carries value and baseline raw: they are strings for name and type and numbers
// for a month amount.
type patchRequest struct {
	Field    string          `json:"field"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Value    json.RawMessage `json:"value"`
	Baseline json.RawMessage `json:"baseline"`
}

type amountResponse struct {
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Amount    json.Number `json:"amount"`
	UpdatedBy *int64      `json:"updated_by"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type entryResponse struct {
	ID            int64            `json:"id"`
	GroupID       int64            `json:"group_id"`
	UserID        int64            `json:"user_id"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	NameUpdatedBy *int64           `json:"name_updated_by"`
	TypeUpdatedBy *int64           `json:"type_updated_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Amounts       []amountResponse `json:"amounts"`
}

type listResponse struct {
	Year  int             `json:"year"`
	Items []entryResponse `json:"items"`
}

type patchResponse struct {
	Status string        `json:"status"`
	Entry  entryResponse `json:"entry"`
}

type snapshotResponse struct {
	Year    int             `json:"year"`
	Entries []entryResponse `json:"entries"`
}

func toEntryResponse(entry entriesdomain.EntryWithAmounts) entryResponse {
	amounts := make([]amountResponse, 0, len(entry.Amounts))
	for _, item := range entry.Amounts {
		amounts = append(amounts, amountResponse{
			Year:      item.Year,
			Month:     item.Month,
			Amount:    commonhandler.Amount(item.Amount),
			UpdatedBy: item.UpdatedBy,
			UpdatedAt: item.UpdatedAt,
		})
	}
	return entryResponse{
		ID:            entry.ID,
		GroupID:       entry.GroupID,
		UserID:        entry.UserID,
		Name:          entry.Name,
		Type:          string(entry.Type),
		NameUpdatedBy: entry.NameUpdatedBy,
		TypeUpdatedBy: entry.TypeUpdatedBy,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
		Amounts:       amounts,
	}
}

func toEntryResponses(entries []entriesdomain.EntryWithAmounts) []entryResponse {
	items := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toEntryResponse(entry))
	}
	return items
}

func toSnapshotResponse(snapshot entriesdomain.Snapshot) snapshotResponse {
	return snapshotResponse{Year: snapshot.Year, Entries: toEntryResponses(snapshot.Entries)}
}

func (req entryRequest) toInput() entriesdomain.SaveInput {
	amounts := make([]entriesdomain.AmountInput, 0, len(req.Amounts))
	for _, item := range req.Amounts {
		amounts = append(amounts, entriesdomain.AmountInput{Year: item.Year, Month: item.Month, Amount: item.Amount})
	}
	return entriesdomain.SaveInput{
		ID:      req.ID,
		Name:    req.Name,
		Type:    entriesdomain.EntryType(req.Type),
		Amounts: amounts,
	}
}

// toInput decodes value and baseline according to the edited field. A JSON null baseline is the
// same as no baseline.
func (req patchRequest) toInput() (entriesdomain.PatchInput, string, error) {
	input := entriesdomain.PatchInput{
		Field: req.Field,
		Year:  req.Year,
		Month: req.Month,
	}
	if len(req.Value) == 0 {
		return input, "value", errMissingValue
	}

	if strings.EqualFold(strings.TrimSpace(req.Field), entriesdomain.FieldAmount) {
		if err := json.Unmarshal(req.Value, &input.Amount); err != nil {
			return input, "value", err
		}
		if hasValue(req.Baseline) {
			var baseline decimal.Decimal
			if err := json.Unmarshal(req.Baseline, &baseline); err != nil {
				return input, "baseline", err
			}
			input.AmountBaseline = &baseline
		}
		return input, "", nil
	}

	if err := json.Unmarshal(req.Value, &input.Text); err != nil {
		return input, "value", err
	}
	if hasValue(req.Baseline) {
		var baseline string
		if err := json.Unmarshal(req.Baseline, &baseline); err != nil {
			return input, "baseline", err
		}
		input.TextBaseline = &baseline
	}
	return input, "", nil
}

func hasValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
