package pipeline

import "net/http"

// ErrorDetail is the structured error payload returned to callers.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

// ErrorResponse wraps an ErrorDetail under the "error" key.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

const (
	validationHint = "Verifique o formato dos dados de entrada. Use um objeto JSON com 'transactions', um array JSON ou texto tabular com cabecalho id,date,description,amount."
	internalHint   = "Tente novamente ou contate o suporte se o erro persistir."
)

func validationError(message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{
		Code:    http.StatusBadRequest,
		Message: message,
		Hint:    validationHint,
	}}
}

func internalError(message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{
		Code:    http.StatusInternalServerError,
		Message: message,
		Hint:    internalHint,
	}}
}
