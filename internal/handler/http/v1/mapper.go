package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/models"
)

// DTOToAlertModel преобразует DTO создания в доменную модель.
// Серверные поля (id, статус, активность, время) здесь не заполняются.
func DTOToAlertModel(dto CreateAlertRequest, userID uuid.UUID) *models.Alert {
	return &models.Alert{
		Title:       dto.Title,
		Description: dto.Description,
		Category:    models.AlertCategory(dto.Category),
		Priority:    models.AlertPriority(dto.Priority),
		Latitude:    dto.Location.Latitude,
		Longitude:   dto.Location.Longitude,
		RadiusKm:    dto.RadiusKm,
		Source:      dto.Source,
		UserID:      userID,
	}
}

// ModelToAlertResponse преобразует доменную модель в DTO для ответа
func ModelToAlertResponse(model *models.Alert) *AlertResponse {
	return &AlertResponse{
		ID:                 model.ID,
		Title:              model.Title,
		Description:        model.Description,
		Category:           string(model.Category),
		Priority:           string(model.Priority),
		VerificationStatus: string(model.VerificationStatus),
		Location: LocationDTO{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		RadiusKm:  model.RadiusKm,
		Source:    model.Source,
		IsActive:  model.IsActive,
		UserID:    model.UserID,
		Timestamp: model.Timestamp,
	}
}

// ModelsToAlertResponses преобразует слайс моделей в слайс DTO
func ModelsToAlertResponses(alerts []*models.Alert) []*AlertResponse {
	responses := make([]*AlertResponse, len(alerts))
	for i, alert := range alerts {
		responses[i] = ModelToAlertResponse(alert)
	}
	return responses
}

// ModelToResourceResponse преобразует модель ресурса в DTO для ответа
func ModelToResourceResponse(model *models.CommunityResource) *ResourceResponse {
	return &ResourceResponse{
		ID:   model.ID,
		Name: model.Name,
		Type: string(model.Type),
		Location: LocationDTO{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		Description: model.Description,
		ContactInfo: model.ContactInfo,
	}
}

// ModelsToResourceResponses преобразует слайс моделей в слайс DTO
func ModelsToResourceResponses(resources []*models.CommunityResource) []*ResourceResponse {
	responses := make([]*ResourceResponse, len(resources))
	for i, resource := range resources {
		responses[i] = ModelToResourceResponse(resource)
	}
	return responses
}

// ModelToUserResponse преобразует модель пользователя в DTO для ответа
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:          model.ID,
		Email:       model.Email,
		FullName:    model.FullName,
		PhoneNumber: model.PhoneNumber,
		AvatarURL:   model.AvatarURL,
		CreatedAt:   model.CreatedAt,
		LastLogin:   model.LastLogin,
	}
}

// ModelToPreferencesResponse преобразует модель настроек в DTO для ответа
func ModelToPreferencesResponse(model *models.UserPreferences) *PreferencesResponse {
	return &PreferencesResponse{
		UserID:        model.UserID,
		AlertRadiusKm: model.AlertRadiusKm,
		NotificationSettings: NotificationSettingsDTO{
			SoundEnabled:           model.SoundEnabled,
			VibrationEnabled:       model.VibrationEnabled,
			CriticalAlertsEnabled:  model.CriticalAlertsEnabled,
			CommunityAlertsEnabled: model.CommunityAlertsEnabled,
		},
	}
}

// DTOToPreferencesPatch преобразует DTO обновления настроек в патч
func DTOToPreferencesPatch(dto UpdatePreferencesRequest) *models.PreferencesPatch {
	return &models.PreferencesPatch{
		AlertRadiusKm:          dto.AlertRadiusKm,
		SoundEnabled:           dto.NotificationSettings.SoundEnabled,
		VibrationEnabled:       dto.NotificationSettings.VibrationEnabled,
		CriticalAlertsEnabled:  dto.NotificationSettings.CriticalAlertsEnabled,
		CommunityAlertsEnabled: dto.NotificationSettings.CommunityAlertsEnabled,
	}
}

// ModelToContactResponse преобразует модель контакта в DTO для ответа
func ModelToContactResponse(model *models.EmergencyContact) *ContactResponse {
	return &ContactResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		Name:         model.Name,
		PhoneNumber:  model.PhoneNumber,
		Relationship: model.Relationship,
	}
}

// ModelsToContactResponses преобразует слайс моделей в слайс DTO
func ModelsToContactResponses(contacts []*models.EmergencyContact) []*ContactResponse {
	responses := make([]*ContactResponse, len(contacts))
	for i, contact := range contacts {
		responses[i] = ModelToContactResponse(contact)
	}
	return responses
}
