// Package validation содержит проверки формата пользовательских данных.
// Правила намеренно простые: адрес должен иметь вид local@domain.tld,
// телефон — номер в формате E.164.
package validation

import "regexp"

var (
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegexp = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// IsValidEmail проверяет, что строка похожа на адрес электронной почты:
// непустая локальная часть, символ @ и домен с точкой, без пробелов.
func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// IsValidPhoneNumber проверяет номер телефона по формату E.164:
// необязательный плюс, первая цифра не ноль, от 2 до 15 цифр всего.
func IsValidPhoneNumber(phoneNumber string) bool {
	return phoneRegexp.MatchString(phoneNumber)
}
