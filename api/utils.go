package api

import (
	"encoding/json"
	"log"
	"net/http"

	"SiteLedger/api/constants"
)

// RespondWithError sends the consistent error envelope.
func RespondWithError(w http.ResponseWriter, status int, errMsg string) {
	log.Println("[ERROR]", errMsg)
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		constants.ValueSuccess: false,
		constants.ValueError:   errMsg,
	})
}

// RespondWithPayload wraps a successful result in the standard envelope.
func RespondWithPayload(w http.ResponseWriter, payload interface{}) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	json.NewEncoder(w).Encode(map[string]interface{}{
		constants.ValueSuccess: true,
		constants.ValueData:    payload,
	})
}

// DecodeJSONBody decodes a request body, replying with the standard
// error envelope on failure.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return false
	}
	return true
}
