package run

// ErrorResponse is the error envelope returned by run endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}
