package service

import (
	"context"
	"fmt"

	"github.com/shenikar/community_alert_system/internal/geo"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ResourceRepository определяет контракт для работы с хранилищем
// общественных ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.CommunityResource) error
	ListAll(ctx context.Context) ([]*models.CommunityResource, error)
}

// ResourceService определяет контракт для поиска ресурсов поблизости
type ResourceService interface {
	NearbyResources(ctx context.Context, latitude, longitude, radiusKm float64) ([]*models.CommunityResource, error)
	AddResource(ctx context.Context, resource *models.CommunityResource) error
}

type resourceService struct {
	repo   ResourceRepository
	logger *logrus.Logger
}

func NewResourceService(repo ResourceRepository, logger *logrus.Logger) ResourceService {
	return &resourceService{
		repo:   repo,
		logger: logger,
	}
}

// NearbyResources возвращает ресурсы в пределах radiusKm от точки.
// В отличие от запроса оповещений фильтр здесь обязателен, за
// обязательность параметров отвечает граница HTTP.
func (s *resourceService) NearbyResources(ctx context.Context, latitude, longitude, radiusKm float64) ([]*models.CommunityResource, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "resource",
		"method":    "NearbyResources",
		"radius_km": radiusKm,
	})
	log.Info("Searching nearby community resources")

	resources, err := s.repo.ListAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list resources from repository")
		return nil, fmt.Errorf("service: could not list resources: %w", err)
	}

	center := geo.Point{Latitude: latitude, Longitude: longitude}
	nearby := make([]*models.CommunityResource, 0, len(resources))
	for _, resource := range resources {
		d, err := geo.DistanceKm(center, geo.Point{Latitude: resource.Latitude, Longitude: resource.Longitude})
		if err != nil {
			log.WithError(err).WithField("resource_id", resource.ID).Warn("Distance evaluation failed, aborting search")
			return nil, fmt.Errorf("service: could not evaluate distance: %w", err)
		}
		if d <= radiusKm {
			nearby = append(nearby, resource)
		}
	}

	log.WithField("count", len(nearby)).Info("Nearby resources found")
	return nearby, nil
}

// AddResource добавляет общественный ресурс. Используется только
// административным путем наполнения (cmd/seed), эндпоинта нет.
func (s *resourceService) AddResource(ctx context.Context, resource *models.CommunityResource) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "resource",
		"method":  "AddResource",
		"name":    resource.Name,
	})

	if !resource.Type.Valid() {
		return fmt.Errorf("service: unknown resource type %q", resource.Type)
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		log.WithError(err).Error("Failed to create resource in repository")
		return fmt.Errorf("service: could not create resource: %w", err)
	}

	log.WithField("resource_id", resource.ID).Info("Resource created successfully")
	return nil
}
