package api

var (
	errorMessageMap = map[int64]string{
		998: "service temporarily unavailable",
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",
		1012: "invalid report in submission",
		1013: "request body too large",
	}

	errorServiceUnavailable = errorJSON(998)
	errorInternalServer     = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorInvalidReport      = errorJSON(1012)
	errorRequestTooLarge    = errorJSON(1013)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
