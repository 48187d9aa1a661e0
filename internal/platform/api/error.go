package api

import (
	"net/http"
)

// InternalServerErrorMessage is the only error text exposed to callers.
const InternalServerErrorMessage = "Internal Server Error"

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// Internal hides the failure cause behind a fixed 500 body.
func Internal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, InternalServerErrorMessage)
}
