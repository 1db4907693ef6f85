package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"roamio/apperr"
)

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// RespondWithError writes the uniform error envelope. Unknown errors are
// logged and reported as INTERNAL without their original message.
func RespondWithError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	if ae.Code == apperr.CodeInternal {
		log.Printf("internal error: %v", err)
	}
	RespondWithJSON(w, ae.HTTPStatus(), M{"error": ae})
}

type M map[string]interface{}
