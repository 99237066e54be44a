package models

import "errors"

// Базовые виды ошибок предметной области. Сервисы оборачивают их в *Error
// с сообщением для пользователя, обработчики сопоставляют их с HTTP-статусами.
var (
	ErrValidation        = errors.New("validation error")
	ErrAuth              = errors.New("authentication error")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
)

// Error ошибка с видом и сообщением, которое можно показать пользователю.
type Error struct {
	Kind    error
	Message string
}

// NewError создаёт ошибку заданного вида.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap позволяет проверять вид ошибки через errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// UserMessage возвращает сообщение для пользователя, если в цепочке есть *Error.
func UserMessage(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
