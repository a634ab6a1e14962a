package errors

const (
	HttpInternalError = "internal_error"
	HttpNotFoundError = "not_found"
	HttpBodyTooLarge  = "body_too_large"
)

// ErrorBody is the inner object of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	URL     string `json:"url,omitempty"`
}

// ErrorResponse is the error response body: {"error": {...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewResponse builds an error response carrying only a message.
func NewResponse(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: message}}
}

// NotFound builds the response for an unmatched url.
func NotFound(url string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: "Resource not found", Type: HttpNotFoundError, URL: url}}
}

// Internal builds the response for an unexpected server failure.
func Internal() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: "Internal server error", Type: HttpInternalError}}
}
