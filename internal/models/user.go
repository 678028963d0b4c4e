package models

import (
	"time"

	"github.com/google/uuid"
)

// User - зарегистрированный пользователь. PasswordHash никогда не
// сериализуется наружу.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	PhoneNumber  string     `json:"phone_number"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// UserPreferences - настройки уведомлений пользователя, одна запись на
// пользователя, создается вместе с ним при регистрации.
type UserPreferences struct {
	UserID                 uuid.UUID `json:"user_id"`
	AlertRadiusKm          float64   `json:"alert_radius"`
	SoundEnabled           bool      `json:"sound_enabled"`
	VibrationEnabled       bool      `json:"vibration_enabled"`
	CriticalAlertsEnabled  bool      `json:"critical_alerts_enabled"`
	CommunityAlertsEnabled bool      `json:"community_alerts_enabled"`
}

// DefaultPreferences возвращает настройки по умолчанию для нового пользователя
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:                 userID,
		AlertRadiusKm:          5.0,
		SoundEnabled:           true,
		VibrationEnabled:       true,
		CriticalAlertsEnabled:  true,
		CommunityAlertsEnabled: true,
	}
}

// PreferencesPatch - явная структура изменений настроек. Перечисляет
// единственные изменяемые поля, чтобы исключить случайную запись в
// неизменяемые колонки.
type PreferencesPatch struct {
	AlertRadiusKm          float64
	SoundEnabled           bool
	VibrationEnabled       bool
	CriticalAlertsEnabled  bool
	CommunityAlertsEnabled bool
}

// EmergencyContact - экстренный контакт пользователя
type EmergencyContact struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Relationship string    `json:"relationship"`
}
