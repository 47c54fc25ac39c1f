// Package models содержит доменную модель пользователя системы.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

// User представляет зарегистрированного пользователя системы.
//
// PasswordHash и UID никогда не сериализуются в ответы клиенту.
// ResetToken хранит последний выданный токен восстановления пароля;
// nil означает, что активного запроса на восстановление нет.
type User struct {
	UID          string  // Уникальный идентификатор пользователя, назначается базой
	Fullname     string  // Полное имя пользователя
	Email        string  // Электронная почта (уникальная)
	PhoneNumber  string  // Номер телефона в формате E.164
	PasswordHash string  // Bcrypt-хеш текущего пароля
	ResetToken   *string // Активный токен восстановления пароля, если есть
}
