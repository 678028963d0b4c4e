package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/notify"
	notify_mocks "github.com/shenikar/community_alert_system/internal/notify/mocks"
	"github.com/shenikar/community_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	logrus_test "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestAlertService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAlertService(t *testing.T) (*alertService, *mocks.MockAlertRepository, *notify_mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAlertRepository(ctrl)
	publisherMock := notify_mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewAlertService(repoMock, logger, publisherMock)
	return service.(*alertService), repoMock, publisherMock
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestCreateAlert_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestAlertService(t)
	ctx := context.Background()
	alertToCreate := &models.Alert{
		Title:       "Наводнение на набережной",
		Description: "Вода поднялась выше уровня дороги",
		Category:    models.CategoryWeather,
		Priority:    models.PriorityImmediate,
		Latitude:    55.75,
		Longitude:   37.61,
		RadiusKm:    3.0,
		Source:      "resident report",
		UserID:      uuid.New(),
		// Клиент пытается подсунуть свои значения — сервис их перезапишет
		VerificationStatus: models.VerificationVerified,
		IsActive:           false,
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, alert *models.Alert) error {
			// Симулируем, что БД присвоила ID и время создания
			alert.ID = uuid.New()
			alert.Timestamp = time.Now()
			return nil
		}).Times(1)

	repoMock.EXPECT().
		SetAlertCache(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event notify.Event) {
			assert.Equal(t, notify.EventAlertCreated, event.Type)
			assert.Equal(t, alertToCreate, event.Alert)
		}).Return(nil).Times(1)

	// Действие
	err := service.CreateAlert(ctx, alertToCreate)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, alertToCreate.VerificationStatus)
	assert.True(t, alertToCreate.IsActive)
	assert.NotEqual(t, uuid.Nil, alertToCreate.ID)
	assert.False(t, alertToCreate.Timestamp.IsZero())
}

func TestCreateAlert_RepositoryError(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestAlertService(t)
	ctx := context.Background()
	alertToCreate := &models.Alert{Title: "Авария"}
	repoError := fmt.Errorf("соединение с бд потеряно")

	// Ожидания
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(repoError).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.CreateAlert(ctx, alertToCreate)

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not create alert")
}

func TestCreateAlert_PublishFailureDoesNotFail(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestAlertService(t)
	ctx := context.Background()
	alertToCreate := &models.Alert{Title: "Перекрытие дороги"}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, alert *models.Alert) error {
			alert.ID = uuid.New()
			return nil
		}).Times(1)
	repoMock.EXPECT().SetAlertCache(ctx, gomock.Any()).Return(nil).Times(1)

	// Публикация падает, создание оповещения при этом успешно
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(fmt.Errorf("redis недоступен")).
		Times(1)

	// Действие
	err := service.CreateAlert(ctx, alertToCreate)

	// Проверки
	require.NoError(t, err)
}

func TestGetAlert_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	expectedAlert := &models.Alert{
		ID:    alertID,
		Title: "Тестовое оповещение из кеша",
	}

	// Ожидания
	repoMock.EXPECT().
		GetAlertFromCache(ctx, alertID).
		Return(expectedAlert, nil).
		Times(1)

	// Действие
	alert, err := service.GetAlert(ctx, alertID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedAlert, alert)
}

func TestGetAlert_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	expectedAlert := &models.Alert{
		ID:    alertID,
		Title: "Тестовое оповещение из БД",
	}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetAlertFromCache(ctx, alertID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().
		GetByID(ctx, alertID).
		Return(expectedAlert, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetAlertCache(ctx, expectedAlert).
		Return(nil).
		Times(1)

	// Действие
	alert, err := service.GetAlert(ctx, alertID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedAlert, alert)
}

func TestGetAlert_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	// Ожидания
	repoMock.EXPECT().GetAlertFromCache(ctx, alertID).Return(nil, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, alertID).Return(nil, ErrNotFound).Times(1)

	// Действие
	alert, err := service.GetAlert(ctx, alertID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, alert)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryAlerts_NoFilter_ReturnsAllActive(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	activeAlerts := []*models.Alert{
		{ID: uuid.New(), Title: "Оповещение 1", Latitude: 40.0, Longitude: -75.0},
		{ID: uuid.New(), Title: "Оповещение 2", Latitude: 55.75, Longitude: 37.61},
	}

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return(activeAlerts, nil).Times(1)

	// Действие
	alerts, err := service.QueryAlerts(ctx, GeoFilter{})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, activeAlerts, alerts)
}

func TestQueryAlerts_PartialFilter_ReturnsAllActive(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	activeAlerts := []*models.Alert{
		{ID: uuid.New(), Title: "Далекое оповещение", Latitude: 10.0, Longitude: 10.0},
	}

	// Без радиуса фильтр неполный и не применяется
	filter := GeoFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-75.0),
	}

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return(activeAlerts, nil).Times(1)

	// Действие
	alerts, err := service.QueryAlerts(ctx, filter)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, activeAlerts, alerts)
}

func TestQueryAlerts_FullFilter_KeepsNearbyOnly(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	nearAlert := &models.Alert{ID: uuid.New(), Title: "Рядом", Latitude: 40.001, Longitude: -75.001}
	farAlert := &models.Alert{ID: uuid.New(), Title: "Далеко", Latitude: 41.0, Longitude: -76.0}

	filter := GeoFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-75.0),
		RadiusKm:  floatPtr(1.0),
	}

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return([]*models.Alert{nearAlert, farAlert}, nil).Times(1)

	// Действие
	alerts, err := service.QueryAlerts(ctx, filter)

	// Проверки
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, nearAlert, alerts[0])
}

func TestQueryAlerts_BoundaryDistanceIncluded(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	// Точка на расстоянии ~0.14 км от центра, радиус ровно покрывает меньше,
	// чем 1 км, но больше фактического расстояния
	boundaryAlert := &models.Alert{ID: uuid.New(), Title: "На границе", Latitude: 40.001, Longitude: -75.001}

	filter := GeoFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-75.0),
		RadiusKm:  floatPtr(0.15),
	}

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return([]*models.Alert{boundaryAlert}, nil).Times(1)

	// Действие
	alerts, err := service.QueryAlerts(ctx, filter)

	// Проверки
	require.NoError(t, err)
	require.Len(t, alerts, 1)
}

func TestQueryAlerts_InvalidStoredCoordinates_AbortsQuery(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	// Оповещение с испорченными координатами в хранилище
	brokenAlert := &models.Alert{ID: uuid.New(), Title: "Испорченное", Latitude: 95.0, Longitude: 0.0}
	goodAlert := &models.Alert{ID: uuid.New(), Title: "Нормальное", Latitude: 40.0, Longitude: -75.0}

	filter := GeoFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-75.0),
		RadiusKm:  floatPtr(100.0),
	}

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return([]*models.Alert{goodAlert, brokenAlert}, nil).Times(1)

	// Действие
	alerts, err := service.QueryAlerts(ctx, filter)

	// Проверки — частичный результат не возвращается
	require.Error(t, err)
	assert.Nil(t, alerts)
	assert.ErrorContains(t, err, "could not evaluate distance")
}

func TestQueryAlerts_AbortLogIncludesAlertID(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	logHook := logrus_test.NewLocal(service.logger)
	ctx := context.Background()
	brokenAlert := &models.Alert{ID: uuid.New(), Title: "Испорченное", Latitude: 95.0, Longitude: 0.0}

	filter := GeoFilter{
		Latitude:  floatPtr(40.0),
		Longitude: floatPtr(-75.0),
		RadiusKm:  floatPtr(100.0),
	}

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return([]*models.Alert{brokenAlert}, nil).Times(1)

	// Действие
	_, err := service.QueryAlerts(ctx, filter)

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
	assert.Equal(t, brokenAlert.ID, warn.Data["alert_id"])
}

func TestQueryAlerts_RepositoryError(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("соединение с бд потеряно")

	// Ожидания
	repoMock.EXPECT().ListActive(ctx).Return(nil, repoError).Times(1)

	// Действие
	alerts, err := service.QueryAlerts(ctx, GeoFilter{})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, alerts)
	assert.ErrorContains(t, err, "could not list active alerts")
}

func TestDeactivateAlert_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	existingAlert := &models.Alert{ID: alertID, IsActive: true}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, alertID).Return(existingAlert, nil).Times(1)
	repoMock.EXPECT().Deactivate(ctx, alertID).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateAlertCache(ctx, alertID).Return(nil).Times(1)

	// Действие
	err := service.DeactivateAlert(ctx, alertID)

	// Проверки
	require.NoError(t, err)
}

func TestDeactivateAlert_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, alertID).Return(nil, ErrNotFound).Times(1)

	// Действие
	err := service.DeactivateAlert(ctx, alertID)

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "not found for deactivate")
}

func TestSetVerificationStatus_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()
	existingAlert := &models.Alert{ID: alertID, VerificationStatus: models.VerificationPending}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, alertID).Return(existingAlert, nil).Times(1)
	repoMock.EXPECT().SetVerificationStatus(ctx, alertID, models.VerificationVerified).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateAlertCache(ctx, alertID).Return(nil).Times(1)

	// Действие
	err := service.SetVerificationStatus(ctx, alertID, models.VerificationVerified)

	// Проверки
	require.NoError(t, err)
}

func TestSetVerificationStatus_UnknownStatus(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	// Ожидания — до репозитория дело не доходит
	repoMock.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.SetVerificationStatus(ctx, alertID, models.VerificationStatus("Approved"))

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown verification status")
}
