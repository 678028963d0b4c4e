package v1

import (
	"time"

	"github.com/google/uuid"
)

// LocationDTO - координаты в теле запроса/ответа
// @Description Координаты точки
type LocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest DTO для обновления пары токенов
// @Description DTO для обновления пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateAlertRequest DTO для создания оповещения. Идентификатор, время,
// статус верификации и активность назначаются сервером и в теле запроса
// не принимаются.
// @Description DTO для создания оповещения
type CreateAlertRequest struct {
	Title       string       `json:"title" validate:"required,min=2,max=255"`
	Description string       `json:"description" validate:"required"`
	Category    string       `json:"category" validate:"required,oneof=Weather Traffic Crime Community 'Public Safety' Infrastructure"`
	Priority    string       `json:"priority" validate:"required,oneof=Immediate Important Informational"`
	Location    *LocationDTO `json:"location" validate:"required"`
	RadiusKm    float64      `json:"radius" validate:"required,gt=0"`
	Source      string       `json:"source" validate:"required"`
}

// AlertResponse DTO для ответа с информацией об оповещении
// @Description DTO для ответа с информацией об оповещении
type AlertResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Category           string      `json:"category"`
	Priority           string      `json:"priority"`
	VerificationStatus string      `json:"verification_status"`
	Location           LocationDTO `json:"location"`
	RadiusKm           float64     `json:"radius"`
	Source             string      `json:"source"`
	IsActive           bool        `json:"is_active"`
	UserID             uuid.UUID   `json:"user_id"`
	Timestamp          time.Time   `json:"timestamp"`
}

// ResourceResponse DTO для ответа с информацией об общественном ресурсе
// @Description DTO для ответа с информацией об общественном ресурсе
type ResourceResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Location    LocationDTO `json:"location"`
	Description string      `json:"description,omitempty"`
	ContactInfo string      `json:"contact_info,omitempty"`
}

// UserResponse DTO для ответа с информацией о пользователе
// @Description DTO для ответа с информацией о пользователе
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	PhoneNumber string     `json:"phone_number"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// NotificationSettingsDTO - флаги уведомлений в настройках
// @Description Флаги уведомлений
type NotificationSettingsDTO struct {
	SoundEnabled           bool `json:"sound_enabled"`
	VibrationEnabled       bool `json:"vibration_enabled"`
	CriticalAlertsEnabled  bool `json:"critical_alerts_enabled"`
	CommunityAlertsEnabled bool `json:"community_alerts_enabled"`
}

// UpdatePreferencesRequest DTO для обновления настроек. Перечисляет
// единственные изменяемые поля.
// @Description DTO для обновления настроек
type UpdatePreferencesRequest struct {
	AlertRadiusKm        float64                  `json:"alert_radius" validate:"required,gt=0"`
	NotificationSettings *NotificationSettingsDTO `json:"notification_settings" validate:"required"`
}

// PreferencesResponse DTO для ответа с настройками пользователя
// @Description DTO для ответа с настройками пользователя
type PreferencesResponse struct {
	UserID               uuid.UUID               `json:"user_id"`
	AlertRadiusKm        float64                 `json:"alert_radius"`
	NotificationSettings NotificationSettingsDTO `json:"notification_settings"`
}

// CreateContactRequest DTO для добавления экстренного контакта
// @Description DTO для добавления экстренного контакта
type CreateContactRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	PhoneNumber  string `json:"phone_number" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

// ContactResponse DTO для ответа с экстренным контактом
// @Description DTO для ответа с экстренным контактом
type ContactResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Relationship string    `json:"relationship"`
}
