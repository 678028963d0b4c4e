package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/auth"
	"github.com/shenikar/community_alert_system/internal/config"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// UserRepository определяет контракт для работы с хранилищем пользователей
type UserRepository interface {
	CreateWithPreferences(ctx context.Context, user *models.User, prefs *models.UserPreferences) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *models.PreferencesPatch) (*models.UserPreferences, error)
	ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.EmergencyContact, error)
	CreateContact(ctx context.Context, contact *models.EmergencyContact) error
	DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error
}

// RegisterInput - данные регистрации нового пользователя
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

// UserService определяет контракт для аккаунтов, настроек и контактов
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*auth.Token, error)
	Login(ctx context.Context, email, password string) (*auth.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Token, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *models.PreferencesPatch) (*models.UserPreferences, error)
	ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.EmergencyContact, error)
	AddContact(ctx context.Context, contact *models.EmergencyContact) error
	RemoveContact(ctx context.Context, userID, contactID uuid.UUID) error
}

type userService struct {
	repo   UserRepository
	logger *logrus.Logger
	cfg    *config.Config
}

func NewUserService(repo UserRepository, logger *logrus.Logger, cfg *config.Config) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
		cfg:    cfg,
	}
}

// Register создает пользователя вместе с настройками по умолчанию
// (одна транзакция) и выпускает пару токенов
func (s *userService) Register(ctx context.Context, input RegisterInput) (*auth.Token, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Register",
		"email":   input.Email,
	})
	log.Info("Attempting to register a new user")

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
	}

	if err := s.repo.CreateWithPreferences(ctx, user, models.DefaultPreferences(uuid.Nil)); err != nil {
		if errors.Is(err, ErrEmailExists) {
			log.Warn("Registration failed - email already exists")
			return nil, ErrEmailExists
		}
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	token, err := auth.IssueTokens(s.cfg, user.ID, user.Email)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, fmt.Errorf("service: could not issue tokens: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return token, nil
}

// Login проверяет учетные данные и выпускает пару токенов
func (s *userService) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Login",
		"email":   email,
	})

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Login failed - unknown email")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user by email")
		return nil, fmt.Errorf("service: could not login: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		log.Warn("Login failed - wrong password")
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last login")
	}

	token, err := auth.IssueTokens(s.cfg, user.ID, user.Email)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, fmt.Errorf("service: could not issue tokens: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, nil
}

// Refresh выпускает новую пару токенов по действительному refresh-токену
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*auth.Token, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "Refresh",
	})

	userID, err := auth.ParseRefreshToken(s.cfg, refreshToken)
	if err != nil {
		log.Warn("Refresh failed - invalid token")
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Refresh failed - user no longer exists")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user by id")
		return nil, fmt.Errorf("service: could not refresh tokens: %w", err)
	}

	token, err := auth.IssueTokens(s.cfg, user.ID, user.Email)
	if err != nil {
		log.WithError(err).Error("Failed to issue tokens")
		return nil, fmt.Errorf("service: could not issue tokens: %w", err)
	}

	return token, nil
}

// GetUser возвращает пользователя по ID
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

// GetPreferences возвращает настройки пользователя
func (s *userService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: could not get preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences применяет явный патч к настройкам пользователя.
// Патч перечисляет все изменяемые поля, ничего кроме них не обновляется.
func (s *userService) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *models.PreferencesPatch) (*models.UserPreferences, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdatePreferences",
		"user_id": userID,
	})

	prefs, err := s.repo.UpdatePreferences(ctx, userID, patch)
	if err != nil {
		log.WithError(err).Error("Failed to update preferences in repository")
		return nil, fmt.Errorf("service: could not update preferences: %w", err)
	}

	log.Info("Preferences updated successfully")
	return prefs, nil
}

// ListContacts возвращает экстренные контакты пользователя
func (s *userService) ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.EmergencyContact, error) {
	contacts, err := s.repo.ListContacts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list contacts: %w", err)
	}
	return contacts, nil
}

// AddContact добавляет экстренный контакт
func (s *userService) AddContact(ctx context.Context, contact *models.EmergencyContact) error {
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return fmt.Errorf("service: could not create contact: %w", err)
	}
	return nil
}

// RemoveContact удаляет экстренный контакт пользователя
func (s *userService) RemoveContact(ctx context.Context, userID, contactID uuid.UUID) error {
	if err := s.repo.DeleteContact(ctx, userID, contactID); err != nil {
		return fmt.Errorf("service: could not delete contact: %w", err)
	}
	return nil
}
