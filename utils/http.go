package utils

import (
	"encoding/json"
	"net/http"

	"github.com/lfapurpose/ghost-gateway/models"
)

// ErrorResponse is the failure envelope. Status and Body are set only when
// the failure came from Ghost itself.
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Status  int                    `json:"status,omitempty"`
	Body    string                 `json:"body,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PostsResponse is the success envelope for list endpoints
type PostsResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Posts   []models.PostSummary `json:"posts"`
}

// PostResponse is the success envelope for single post endpoints
type PostResponse struct {
	Success bool                `json:"success"`
	Post    *models.PostSummary `json:"post"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WritePosts writes a 200 list envelope
func WritePosts(w http.ResponseWriter, posts []models.PostSummary) error {
	if posts == nil {
		posts = []models.PostSummary{}
	}
	return WriteJSON(w, http.StatusOK, PostsResponse{
		Success: true,
		Count:   len(posts),
		Posts:   posts,
	})
}

// WritePost writes a 200 single post envelope
func WritePost(w http.ResponseWriter, post *models.PostSummary) error {
	return WriteJSON(w, http.StatusOK, PostResponse{
		Success: true,
		Post:    post,
	})
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes a failure envelope with the given status
func WriteError(w http.ResponseWriter, status int, message string, details map[string]interface{}) error {
	if message == "" {
		message = http.StatusText(status)
	}
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// WriteUpstreamError writes a failure envelope that echoes Ghost's status and body
func WriteUpstreamError(w http.ResponseWriter, status int, message string, upstreamStatus int, body string, details map[string]interface{}) error {
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   message,
		Status:  upstreamStatus,
		Body:    body,
		Details: details,
	})
}

// WriteBadRequest writes a 400 Bad Request response with error details
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]interface{}) error {
	return WriteError(w, http.StatusBadRequest, message, details)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteError(w, http.StatusNotFound, message, nil)
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, message string, details map[string]interface{}) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, message, details)
}
