package domain

import "errors"

var (
	ErrNotFound = errors.New("запись не найдена")

	ErrValidation    = errors.New("ошибка валидации")
	ErrInvalidFormat = errors.New("неверный формат данных")

	ErrInvalidTimeRange         = errors.New("время начала должно быть раньше времени окончания")
	ErrPastDate                 = errors.New("нельзя создать доступность на прошедшую дату")
	ErrInvalidRecurrencePattern = errors.New("неизвестный шаблон повторения")
	ErrInvalidTimezone          = errors.New("неизвестный часовой пояс")

	ErrSlotNotAvailable   = errors.New("слот недоступен для бронирования")
	ErrSlotNotBooked      = errors.New("слот не забронирован")
	ErrCannotDeleteBooked = errors.New("нельзя удалить забронированный слот")

	ErrEmailTaken   = errors.New("email уже используется")
	ErrPhoneTaken   = errors.New("номер телефона уже используется")
	ErrLicenseTaken = errors.New("номер лицензии уже используется")
	ErrSSNTaken     = errors.New("SSN уже используется")

	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrAccountInactive    = errors.New("аккаунт деактивирован")
	ErrAccountNotVerified = errors.New("аккаунт не прошел верификацию")
)
