package leavehandler

import "github.com/pkg/errors"

// Типизированные ошибки жизненного цикла заявки.
// Вызывающая сторона сопоставляет их через errors.Is и переводит в HTTP статус.
var (
	ErrValidation = errors.New("некорректные данные заявки")
	ErrForbidden  = errors.New("операция недоступна")
	ErrNotFound   = errors.New("заявка не найдена")
	ErrOverlap    = errors.New("заявка пересекается с существующей")
	ErrDecided    = errors.New("решение по заявке уже принято")
)

func validationError(msg string) error {
	return errors.Wrap(ErrValidation, msg)
}
