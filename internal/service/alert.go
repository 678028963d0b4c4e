package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/geo"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/notify"
	"github.com/sirupsen/logrus"
)

// AlertRepository определяет контракт для работы с хранилищем оповещений
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListActive(ctx context.Context) ([]*models.Alert, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	SetVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error
	GetAlertFromCache(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	SetAlertCache(ctx context.Context, alert *models.Alert) error
	InvalidateAlertCache(ctx context.Context, id uuid.UUID) error
}

// GeoFilter - опциональный пространственный фильтр запроса оповещений.
// Фильтрация применяется только когда заданы все три параметра,
// частично заданный фильтр означает "без фильтра".
type GeoFilter struct {
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
}

// Complete сообщает, заданы ли все три параметра фильтра
func (f GeoFilter) Complete() bool {
	return f.Latitude != nil && f.Longitude != nil && f.RadiusKm != nil
}

// AlertService определяет контракт для бизнес-логики оповещений
type AlertService interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	QueryAlerts(ctx context.Context, filter GeoFilter) ([]*models.Alert, error)
	DeactivateAlert(ctx context.Context, id uuid.UUID) error
	SetVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error
}

type alertService struct {
	repo      AlertRepository
	logger    *logrus.Logger
	publisher notify.EventPublisher
}

func NewAlertService(repo AlertRepository, logger *logrus.Logger, publisher notify.EventPublisher) AlertService {
	return &alertService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// CreateAlert создает оповещение. Статус верификации и активность
// всегда назначаются сервером, переданные клиентом значения игнорируются.
func (s *alertService) CreateAlert(ctx context.Context, alert *models.Alert) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "CreateAlert",
		"title":   alert.Title,
		"user_id": alert.UserID,
	})
	log.Info("Attempting to create a new alert")

	alert.VerificationStatus = models.VerificationPending
	alert.IsActive = true

	if err := s.repo.Create(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to create alert in repository")
		return fmt.Errorf("service: could not create alert: %w", err)
	}

	if err := s.repo.SetAlertCache(ctx, alert); err != nil {
		log.WithError(err).Warn("Failed to warm alert cache")
	}

	event := notify.Event{
		Type:      notify.EventAlertCreated,
		Alert:     alert,
		Timestamp: alert.Timestamp,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Доставка событий не должна ронять создание оповещения
		log.WithError(err).Warn("Failed to publish alert.created event")
	}

	log.WithField("alert_id", alert.ID).Info("Alert created successfully")
	return nil
}

// GetAlert получает оповещение по ID, сначала из кеша, затем из бд
func (s *alertService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "GetAlert",
		"alert_id": id,
	})

	cached, err := s.repo.GetAlertFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read alert from cache")
	}
	if cached != nil {
		log.Debug("Alert served from cache")
		return cached, nil
	}

	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get alert from repository")
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}

	if err := s.repo.SetAlertCache(ctx, alert); err != nil {
		log.WithError(err).Warn("Failed to set alert cache")
	}

	return alert, nil
}

// QueryAlerts возвращает активные оповещения. Если фильтр задан полностью,
// остаются только оповещения в пределах radius_km от центра (граница
// включительно). Ошибка расстояния прерывает весь запрос, частичный
// результат не возвращается.
func (s *alertService) QueryAlerts(ctx context.Context, filter GeoFilter) ([]*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "QueryAlerts",
		"filtered": filter.Complete(),
	})
	log.Info("Querying active alerts")

	alerts, err := s.repo.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list active alerts from repository")
		return nil, fmt.Errorf("service: could not list active alerts: %w", err)
	}

	if !filter.Complete() {
		log.WithField("count", len(alerts)).Info("Returning unfiltered active alerts")
		return alerts, nil
	}

	center := geo.Point{Latitude: *filter.Latitude, Longitude: *filter.Longitude}
	filtered := make([]*models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		d, err := geo.DistanceKm(center, geo.Point{Latitude: alert.Latitude, Longitude: alert.Longitude})
		if err != nil {
			log.WithError(err).WithField("alert_id", alert.ID).Warn("Distance evaluation failed, aborting query")
			return nil, fmt.Errorf("service: could not evaluate distance: %w", err)
		}
		if d <= *filter.RadiusKm {
			filtered = append(filtered, alert)
		}
	}

	log.WithField("count", len(filtered)).Info("Returning filtered active alerts")
	return filtered, nil
}

// DeactivateAlert помечает оповещение неактивным (мягкое удаление).
// Зарезервировано для инструментов модерации, на маршруты не выведено.
func (s *alertService) DeactivateAlert(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "DeactivateAlert",
		"alert_id": id,
	})
	log.Info("Attempting to deactivate alert")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to deactivate a non-existent alert")
		return fmt.Errorf("service: alert %s not found for deactivate: %w", id, err)
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		log.WithError(err).Error("Failed to deactivate alert in repository")
		return fmt.Errorf("service: could not deactivate alert: %w", err)
	}

	if err := s.repo.InvalidateAlertCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate alert cache")
	}

	log.Info("Alert deactivated successfully")
	return nil
}

// SetVerificationStatus переводит статус модерации оповещения.
// Зарезервировано для инструментов модерации, на маршруты не выведено.
func (s *alertService) SetVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "SetVerificationStatus",
		"alert_id": id,
		"status":   status,
	})
	log.Info("Attempting to set verification status")

	if !status.Valid() {
		return fmt.Errorf("service: unknown verification status %q", status)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to verify a non-existent alert")
		return fmt.Errorf("service: alert %s not found for verification: %w", id, err)
	}

	if err := s.repo.SetVerificationStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to set verification status in repository")
		return fmt.Errorf("service: could not set verification status: %w", err)
	}

	if err := s.repo.InvalidateAlertCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate alert cache")
	}

	log.Info("Verification status updated successfully")
	return nil
}
