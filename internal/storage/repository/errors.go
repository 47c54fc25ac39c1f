package repository

import "errors"

// Ошибки уровня хранилища. Бизнес-логика сравнивает их через errors.Is
// и переводит в собственные ошибки операций.
var (
	// ErrEmailExists возвращается при нарушении уникального ограничения
	// на колонку email. Именно ограничение схемы, а не предварительная
	// проверка, закрывает гонку между поиском и вставкой при регистрации.
	ErrEmailExists = errors.New("storage: email already exists")

	// ErrUserNotFound возвращается, если запрошенный пользователь отсутствует
	// или условие обновления не совпало ни с одной строкой.
	ErrUserNotFound = errors.New("storage: user not found")
)
