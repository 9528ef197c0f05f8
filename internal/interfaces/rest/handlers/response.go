package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/filmhaus/payment-service/internal/application"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondWithDetail(w http.ResponseWriter, status int, detail string) {
	respondWithJSON(w, status, ErrorResponse{Detail: detail})
}

// respondWithError maps service errors to HTTP responses without leaking
// internals.
func respondWithError(w http.ResponseWriter, err error) {
	if svcErr, ok := application.IsServiceError(err); ok {
		respondWithDetail(w, svcErr.HTTPStatus, svcErr.Message)
		return
	}
	respondWithDetail(w, http.StatusInternalServerError, "Internal server error")
}
