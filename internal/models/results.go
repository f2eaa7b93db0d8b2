package models

// VerifyStatusCode — код результата подтверждения почты.
// Значения фиксированы протоколом сервера и должны совпадать точно.
type VerifyStatusCode int

// Коды результата подтверждения почты.
const (
	VerifyStatusSuccess         VerifyStatusCode = 200 // Почта подтверждена
	VerifyStatusAlreadyVerified VerifyStatusCode = 208 // Почта уже была подтверждена
	VerifyStatusFailure         VerifyStatusCode = 400 // Некорректный код подтверждения
	VerifyStatusExpired         VerifyStatusCode = 404 // Код подтверждения истёк
	VerifyStatusUnknown         VerifyStatusCode = 500 // Неизвестная ошибка, в том числе сетевая
)

// ResetStatusCode — код результата сброса пароля.
// Значения фиксированы протоколом сервера и должны совпадать точно.
type ResetStatusCode int

// Коды результата сброса пароля.
const (
	ResetStatusSuccess  ResetStatusCode = 200 // Пароль изменён
	ResetStatusAccepted ResetStatusCode = 202 // Запрос принят, письмо отправлено
	ResetStatusInvalid  ResetStatusCode = 400 // Некорректный токен сброса
	ResetStatusExpired  ResetStatusCode = 410 // Токен сброса истёк
	ResetStatusUnknown  ResetStatusCode = 500 // Неизвестная ошибка, в том числе сетевая
)

// VerifyEmailResult — результат операции подтверждения почты.
// Возвращается на каждый вызов и никогда не кэшируется. При сетевой
// ошибке поле Error содержит её текст, а StatusCode равен VerifyStatusUnknown.
type VerifyEmailResult struct {
	StatusCode VerifyStatusCode `json:"status_code"`     // Код результата
	StatusText string           `json:"status_text"`     // Текстовое описание от сервера
	Error      string           `json:"error,omitempty"` // Текст ошибки транспорта или разбора, если была
}

// PasswordResetResult — результат операции сброса пароля.
// Семантика полей такая же, как у VerifyEmailResult.
type PasswordResetResult struct {
	StatusCode ResetStatusCode `json:"status_code"`     // Код результата
	StatusText string          `json:"status_text"`     // Текстовое описание от сервера
	Error      string          `json:"error,omitempty"` // Текст ошибки транспорта или разбора, если была
}
