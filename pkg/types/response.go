package types

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse carries an informational message, e.g. an empty search.
type MessageResponse struct {
	Message string `json:"message"`
}
