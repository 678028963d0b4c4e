package models

import (
	"github.com/google/uuid"
)

// ResourceType - тип общественного ресурса
type ResourceType string

const (
	ResourceShelter         ResourceType = "Shelter"
	ResourceHospital        ResourceType = "Hospital"
	ResourcePoliceStation   ResourceType = "Police Station"
	ResourceFireStation     ResourceType = "Fire Station"
	ResourceCommunityCenter ResourceType = "Community Center"
)

func (r ResourceType) Valid() bool {
	switch r {
	case ResourceShelter, ResourceHospital, ResourcePoliceStation,
		ResourceFireStation, ResourceCommunityCenter:
		return true
	}
	return false
}

// CommunityResource представляет статический общественный ресурс
// (убежище, больница и т.д.). Неизменяем после создания, наполняется
// отдельным административным путем (cmd/seed).
type CommunityResource struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Type        ResourceType `json:"type"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Description string       `json:"description,omitempty"`
	ContactInfo string       `json:"contact_info,omitempty"`
}
