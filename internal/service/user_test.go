package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/auth"
	"github.com/shenikar/community_alert_system/internal/config"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestUserService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestUserService(t *testing.T) (*userService, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTRefreshSecret: "test-refresh-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    time.Hour,
	}

	service := NewUserService(repoMock, logger, cfg)
	return service.(*userService), repoMock
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	input := RegisterInput{
		Email:       "new@example.com",
		Password:    "strongpassword",
		FullName:    "Анна Иванова",
		PhoneNumber: "+79001234567",
	}

	// Ожидания
	repoMock.EXPECT().
		CreateWithPreferences(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, user *models.User, prefs *models.UserPreferences) error {
			assert.Equal(t, input.Email, user.Email)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, input.Password, user.PasswordHash)
			// Настройки нового пользователя — значения по умолчанию
			assert.Equal(t, 5.0, prefs.AlertRadiusKm)
			assert.True(t, prefs.SoundEnabled)
			assert.True(t, prefs.VibrationEnabled)
			assert.True(t, prefs.CriticalAlertsEnabled)
			assert.True(t, prefs.CommunityAlertsEnabled)
			// Симулируем, что БД присвоила ID
			user.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	token, err := service.Register(ctx, input)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.AccessToken)
	assert.NotEmpty(t, token.RefreshToken)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEqual(t, uuid.Nil, token.UserID)
}

func TestRegister_EmailExists(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	input := RegisterInput{
		Email:    "taken@example.com",
		Password: "strongpassword",
	}

	// Ожидания
	repoMock.EXPECT().
		CreateWithPreferences(ctx, gomock.Any(), gomock.Any()).
		Return(ErrEmailExists).
		Times(1)

	// Действие
	token, err := service.Register(ctx, input)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	password := "strongpassword"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	existingUser := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
	}

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, existingUser.Email).Return(existingUser, nil).Times(1)
	repoMock.EXPECT().UpdateLastLogin(ctx, existingUser.ID).Return(nil).Times(1)

	// Действие
	token, err := service.Login(ctx, existingUser.Email, password)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, existingUser.ID, token.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	hash, err := auth.HashPassword("correct password")
	require.NoError(t, err)

	existingUser := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
	}

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, existingUser.Email).Return(existingUser, nil).Times(1)

	// Действие
	token, err := service.Login(ctx, existingUser.Email, "wrong password")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, ErrNotFound).Times(1)

	// Действие
	token, err := service.Login(ctx, "nobody@example.com", "whatever")

	// Проверки — неизвестный email неотличим от неверного пароля
	require.Error(t, err)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LastLoginFailureDoesNotFail(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	password := "strongpassword"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	existingUser := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
	}

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, existingUser.Email).Return(existingUser, nil).Times(1)
	repoMock.EXPECT().
		UpdateLastLogin(ctx, existingUser.ID).
		Return(fmt.Errorf("соединение с бд потеряно")).
		Times(1)

	// Действие
	token, err := service.Login(ctx, existingUser.Email, password)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, token)
}

func TestRefresh_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	existingUser := &models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
	}

	issued, err := auth.IssueTokens(service.cfg, existingUser.ID, existingUser.Email)
	require.NoError(t, err)

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, existingUser.ID).Return(existingUser, nil).Times(1)

	// Действие
	token, err := service.Refresh(ctx, issued.RefreshToken)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, existingUser.ID, token.UserID)
}

func TestRefresh_InvalidToken(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()

	// Ожидания — до репозитория дело не доходит
	repoMock.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	token, err := service.Refresh(ctx, "not-a-token")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_UserDeleted(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	issued, err := auth.IssueTokens(service.cfg, userID, "gone@example.com")
	require.NoError(t, err)

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, userID).Return(nil, ErrNotFound).Times(1)

	// Действие
	token, err := service.Refresh(ctx, issued.RefreshToken)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePreferences_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	patch := &models.PreferencesPatch{
		AlertRadiusKm:          12.5,
		SoundEnabled:           false,
		VibrationEnabled:       true,
		CriticalAlertsEnabled:  true,
		CommunityAlertsEnabled: false,
	}
	updated := &models.UserPreferences{
		UserID:                 userID,
		AlertRadiusKm:          12.5,
		SoundEnabled:           false,
		VibrationEnabled:       true,
		CriticalAlertsEnabled:  true,
		CommunityAlertsEnabled: false,
	}

	// Ожидания
	repoMock.EXPECT().UpdatePreferences(ctx, userID, patch).Return(updated, nil).Times(1)

	// Действие
	prefs, err := service.UpdatePreferences(ctx, userID, patch)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, updated, prefs)
}

func TestGetPreferences_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания
	repoMock.EXPECT().GetPreferences(ctx, userID).Return(nil, ErrNotFound).Times(1)

	// Действие
	prefs, err := service.GetPreferences(ctx, userID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, prefs)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListContacts_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	expectedContacts := []*models.EmergencyContact{
		{ID: uuid.New(), UserID: userID, Name: "Мама", PhoneNumber: "+79000000001", Relationship: "Family"},
		{ID: uuid.New(), UserID: userID, Name: "Сосед", PhoneNumber: "+79000000002", Relationship: "Neighbor"},
	}

	// Ожидания
	repoMock.EXPECT().ListContacts(ctx, userID).Return(expectedContacts, nil).Times(1)

	// Действие
	contacts, err := service.ListContacts(ctx, userID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedContacts, contacts)
}

func TestRemoveContact_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock := newTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	contactID := uuid.New()

	// Ожидания
	repoMock.EXPECT().DeleteContact(ctx, userID, contactID).Return(ErrNotFound).Times(1)

	// Действие
	err := service.RemoveContact(ctx, userID, contactID)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
