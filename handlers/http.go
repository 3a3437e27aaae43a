package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"rsbackend/core"
)

type errorBody struct {
	Code    core.ErrorCode `json:"code"`
	Message string         `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse maps the closed error taxonomy to HTTP. Internal
// causes are logged server-side only and never sent to the client.
func writeErrorResponse(w http.ResponseWriter, err error) {
	if appErr, ok := core.AsAppError(err); ok {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			log.Printf("❌ Request failed: %v", err)
		}
		writeJSONResponse(w, appErr.HTTPStatus(), errorResponse{
			Error: errorBody{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	log.Printf("❌ Unexpected error: %v", err)
	writeJSONResponse(w, http.StatusInternalServerError, errorResponse{
		Error: errorBody{Code: core.ErrCodeInternal, Message: "Internal server error"},
	})
}
