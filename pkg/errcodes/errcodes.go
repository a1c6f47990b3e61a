package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidCoordinates  failure.ErrorCode = "InvalidCoordinates"
	InvalidURL          failure.ErrorCode = "InvalidURL"

	// Pipeline.
	ConfigurationError     failure.ErrorCode = "ConfigurationError"     // Невалидные границы, фильтры, направления
	DataQualityError       failure.ErrorCode = "DataQualityError"       // После нормализации не осталось строк
	EnrichmentFailure      failure.ErrorCode = "EnrichmentFailure"      // Провайдер вернул мусор для одной ячейки
	TransientProviderError failure.ErrorCode = "TransientProviderError" // Сеть, таймаут, квота
	SourceUnavailable      failure.ErrorCode = "SourceUnavailable"

	ProfileNotFound failure.ErrorCode = "ProfileNotFound"
	DigestNotFound  failure.ErrorCode = "DigestNotFound"
)
