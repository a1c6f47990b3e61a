package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"

	FieldProfile     = "profile"
	FieldDestination = "destination"
	FieldMode        = "mode"
	FieldListingID   = "listing-id"
	FieldRows        = "rows"
	FieldAttempt     = "attempt"
	FieldChatID      = "chat-id"
	FieldRunID       = "run-id"
	FieldPosition    = "position"
)
