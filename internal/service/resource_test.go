package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	logrus_test "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestResourceService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestResourceService(t *testing.T) (*resourceService, *mocks.MockResourceRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockResourceRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewResourceService(repoMock, logger)
	return service.(*resourceService), repoMock
}

func TestNearbyResources_FiltersByRadius(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	ctx := context.Background()
	nearShelter := &models.CommunityResource{
		ID:        uuid.New(),
		Name:      "Убежище на соседней улице",
		Type:      models.ResourceShelter,
		Latitude:  40.001,
		Longitude: -75.001,
	}
	farHospital := &models.CommunityResource{
		ID:        uuid.New(),
		Name:      "Больница в другом городе",
		Type:      models.ResourceHospital,
		Latitude:  41.0,
		Longitude: -76.0,
	}

	// Ожидания
	repoMock.EXPECT().
		ListAll(ctx).
		Return([]*models.CommunityResource{nearShelter, farHospital}, nil).
		Times(1)

	// Действие
	resources, err := service.NearbyResources(ctx, 40.0, -75.0, 2.0)

	// Проверки
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, nearShelter, resources[0])
}

func TestNearbyResources_WideRadiusKeepsAll(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	ctx := context.Background()
	all := []*models.CommunityResource{
		{ID: uuid.New(), Name: "Рядом", Latitude: 40.001, Longitude: -75.001},
		{ID: uuid.New(), Name: "Далеко", Latitude: 41.0, Longitude: -76.0},
	}

	// Ожидания
	repoMock.EXPECT().ListAll(ctx).Return(all, nil).Times(1)

	// Действие
	resources, err := service.NearbyResources(ctx, 40.0, -75.0, 200.0)

	// Проверки
	require.NoError(t, err)
	assert.Len(t, resources, 2)
}

func TestNearbyResources_EmptyWhenNothingInRange(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	ctx := context.Background()
	all := []*models.CommunityResource{
		{ID: uuid.New(), Name: "Далеко", Latitude: 55.75, Longitude: 37.61},
	}

	// Ожидания
	repoMock.EXPECT().ListAll(ctx).Return(all, nil).Times(1)

	// Действие
	resources, err := service.NearbyResources(ctx, 40.0, -75.0, 1.0)

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestNearbyResources_AbortLogIncludesResourceID(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	logHook := logrus_test.NewLocal(service.logger)
	ctx := context.Background()
	brokenResource := &models.CommunityResource{
		ID:        uuid.New(),
		Name:      "Запись с испорченными координатами",
		Latitude:  95.0,
		Longitude: 0.0,
	}

	// Ожидания
	repoMock.EXPECT().ListAll(ctx).Return([]*models.CommunityResource{brokenResource}, nil).Times(1)

	// Действие
	_, err := service.NearbyResources(ctx, 40.0, -75.0, 5.0)

	// Проверки — предупреждение называет идентификатор испорченной записи,
	// чтобы оператор мог найти её в бд
	require.Error(t, err)
	var warn *logrus.Entry
	for _, entry := range logHook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warn = entry
		}
	}
	require.NotNil(t, warn)
	assert.Equal(t, brokenResource.ID, warn.Data["resource_id"])
}

func TestNearbyResources_RepositoryError(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("соединение с бд потеряно")

	// Ожидания
	repoMock.EXPECT().ListAll(ctx).Return(nil, repoError).Times(1)

	// Действие
	resources, err := service.NearbyResources(ctx, 40.0, -75.0, 5.0)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, resources)
	assert.ErrorContains(t, err, "could not list resources")
}

func TestAddResource_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	ctx := context.Background()
	resource := &models.CommunityResource{
		Name:      "Пожарная часть №3",
		Type:      models.ResourceFireStation,
		Latitude:  40.0,
		Longitude: -75.0,
	}

	// Ожидания
	repoMock.EXPECT().Create(ctx, resource).Return(nil).Times(1)

	// Действие
	err := service.AddResource(ctx, resource)

	// Проверки
	require.NoError(t, err)
}

func TestAddResource_UnknownType(t *testing.T) {
	// Подготовка
	service, repoMock := newTestResourceService(t)
	ctx := context.Background()
	resource := &models.CommunityResource{
		Name: "Неизвестный объект",
		Type: models.ResourceType("Warehouse"),
	}

	// Ожидания — до репозитория дело не доходит
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.AddResource(ctx, resource)

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown resource type")
}
