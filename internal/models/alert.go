package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertCategory - закрытый набор категорий оповещений
type AlertCategory string

const (
	CategoryWeather        AlertCategory = "Weather"
	CategoryTraffic        AlertCategory = "Traffic"
	CategoryCrime          AlertCategory = "Crime"
	CategoryCommunity      AlertCategory = "Community"
	CategoryPublicSafety   AlertCategory = "Public Safety"
	CategoryInfrastructure AlertCategory = "Infrastructure"
)

// Valid проверяет, что категория входит в закрытый набор
func (c AlertCategory) Valid() bool {
	switch c {
	case CategoryWeather, CategoryTraffic, CategoryCrime,
		CategoryCommunity, CategoryPublicSafety, CategoryInfrastructure:
		return true
	}
	return false
}

// AlertPriority - приоритет оповещения
type AlertPriority string

const (
	PriorityImmediate     AlertPriority = "Immediate"
	PriorityImportant     AlertPriority = "Important"
	PriorityInformational AlertPriority = "Informational"
)

func (p AlertPriority) Valid() bool {
	switch p {
	case PriorityImmediate, PriorityImportant, PriorityInformational:
		return true
	}
	return false
}

// VerificationStatus - статус модерации оповещения
type VerificationStatus string

const (
	VerificationPending    VerificationStatus = "Pending"
	VerificationVerified   VerificationStatus = "Verified"
	VerificationUnverified VerificationStatus = "Unverified"
)

func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationUnverified:
		return true
	}
	return false
}

// Alert представляет оповещение, привязанное к координатам.
// Категория, приоритет, координаты, владелец и время создания неизменяемы
// после создания; переходы допустимы только для VerificationStatus и IsActive.
type Alert struct {
	ID                 uuid.UUID          `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Category           AlertCategory      `json:"category"`
	Priority           AlertPriority      `json:"priority"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Latitude           float64            `json:"latitude"`
	Longitude          float64            `json:"longitude"`
	RadiusKm           float64            `json:"radius_km"`
	Source             string             `json:"source"`
	IsActive           bool               `json:"is_active"`
	UserID             uuid.UUID          `json:"user_id"`
	Timestamp          time.Time          `json:"timestamp"`
}
