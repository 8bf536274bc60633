package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Advansoftware/FinWise-sub002/internal/service"
)

type errorBody struct {
	Code    service.ErrorCode `json:"code"`
	Message string            `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// respondError writes a business error as JSON with its status hint.
// Anything that is not a service.Error is an internal failure: it gets
// logged with detail and surfaces as an opaque 500
func respondError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeJSON(w, svcErr.Status, errorResponse{Error: errorBody{
			Code:    svcErr.Code,
			Message: svcErr.Message,
		}})
		return
	}

	log.Printf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
		Code:    "INTERNAL",
		Message: "internal server error",
	}})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
		Code:    "BAD_REQUEST",
		Message: message,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// decodeJSON reads a request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
