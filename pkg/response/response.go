package response

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Response struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// Error builds the failure envelope shared by middleware and handlers.
func Error(code, message string, details any) Response {
	return Response{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
