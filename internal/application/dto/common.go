package dto

// ErrorResponse is the body of every failed HTTP response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
