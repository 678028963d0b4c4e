package service

import "errors"

// Типизированные ошибки доменного слоя. Граница HTTP сопоставляет их
// со статус-кодами через errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
