package session

import "fmt"

// RequestError — ошибка транспорта: DNS, отказ соединения, обрыв сети.
// Отдельный тип позволяет вызывающему коду отличать недоступность сети
// от отказа сервера через errors.As.
type RequestError struct {
	Op  string // Операция, в которой произошла ошибка
	URL string // Полный URL запроса
	Err error  // Исходная ошибка транспорта
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request %s: %v", e.Op, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError — ответ сервера не разбирается как ожидаемый JSON.
type ParseError struct {
	Op  string // Операция, в которой произошла ошибка
	URL string // Полный URL запроса
	Err error  // Исходная ошибка декодирования
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse response of %s: %v", e.Op, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatusError — сервер отверг запрос: HTTP-статус вне успешного диапазона
// там, где тело ответа не несёт собственного кода результата.
type StatusError struct {
	Op         string // Операция, в которой произошла ошибка
	URL        string // Полный URL запроса
	StatusCode int    // Полученный HTTP-статус
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", e.Op, e.URL, e.StatusCode)
}
