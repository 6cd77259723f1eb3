package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}

// ToIntDefault parses s, returning def when s is empty or not a number.
func ToIntDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type ErrorBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func WriteJSONError(w http.ResponseWriter, code int, reason, message string) {
	WriteJSON(w, code, ErrorBody{Reason: reason, Message: message})
}
