package dto

// Response sobre uniforme de todas las respuestas HTTP: result o error, nunca ambos.
type Response struct {
	Result any            `json:"result"`
	Error  *ErrorResponse `json:"error"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK envuelve un resultado exitoso.
func OK(result any) Response {
	return Response{Result: result}
}

// Fail envuelve un error con código estable.
func Fail(code, message string) Response {
	return Response{Error: &ErrorResponse{Code: code, Message: message}}
}
