package http

import (
	"encoding/json"
	"net/http"

	apperrors "yoyaku/pkg/errors"
)

// ListResponse is the envelope for every collection endpoint. Pagination
// is trivial: the full result set is returned with page fixed at 1.
type ListResponse struct {
	Data    any `json:"data"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps any error onto the error envelope. Non-AppError values
// are treated as internal failures so raw store errors never leak.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), apperrors.Envelope{Error: apperrors.ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func WriteList(w http.ResponseWriter, count int, data any) error {
	return WriteJSON(w, http.StatusOK, ListResponse{
		Data:    data,
		Page:    1,
		PerPage: count,
		Total:   count,
	})
}
