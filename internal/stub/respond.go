package stub

import (
	"encoding/json"
	"log"
	"net/http"
)

// envelope mirrors the storefront API response shape. The HTTP layer
// always answers 200; clients read the embedded status, so business
// rejections travel inside the body.
type envelope struct {
	Status  int    `json:"status"`
	Message any    `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	ID      string `json:"id,omitempty"`
}

func respond(w http.ResponseWriter, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondData(w http.ResponseWriter, data any) {
	respond(w, envelope{Status: 200, Data: data})
}

func respondError(w http.ResponseWriter, status int, message any) {
	respond(w, envelope{Status: status, Message: message})
}
