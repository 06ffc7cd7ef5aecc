package common

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type conflictEnvelope struct {
	Error   errorBody `json:"error"`
	Current any       `json:"current"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// maxBodyBytes bounds every JSON request body, bulk entry saves included.
const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteFieldError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{Code: "invalid_request", Message: message, Field: field}})
}

// WriteConflict answers a lost optimistic write with the authoritative state the client should
// diff against.
func WriteConflict(w http.ResponseWriter, message string, current any) {
	writeJSON(w, http.StatusConflict, conflictEnvelope{
		Error:   errorBody{Code: "conflict", Message: message},
		Current: current,
	})
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// Amount renders money as a JSON number with two decimals, without a float round trip.
func Amount(value decimal.Decimal) json.Number {
	return json.Number(value.StringFixed(2))
}
