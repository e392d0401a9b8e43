package dto

// ErrorBody is the payload of every failed response.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
