package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/service"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `
	id,
	email,
	password_hash,
	full_name,
	phone_number,
	avatar_url,
	created_at,
	last_login
`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.PhoneNumber,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateWithPreferences создает пользователя и его настройки по умолчанию
// в одной транзакции. Дубликат email превращается в service.ErrEmailExists.
func (r *UserRepository) CreateWithPreferences(ctx context.Context, user *models.User, prefs *models.UserPreferences) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (email, password_hash, full_name, phone_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`
	err = tx.QueryRow(ctx, userQuery,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.PhoneNumber,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("user with email %s: %w", user.Email, service.ErrEmailExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	prefs.UserID = user.ID
	prefsQuery := `
		INSERT INTO user_preferences (user_id, alert_radius_km, sound_enabled, vibration_enabled, critical_alerts_enabled, community_alerts_enabled)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, prefsQuery,
		prefs.UserID,
		prefs.AlertRadiusKm,
		prefs.SoundEnabled,
		prefs.VibrationEnabled,
		prefs.CriticalAlertsEnabled,
		prefs.CommunityAlertsEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create user preferences: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1;`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByID возвращает пользователя по его UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1;`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// UpdateLastLogin фиксирует время последнего входа
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1;`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// GetPreferences возвращает настройки пользователя
func (r *UserRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	query := `
		SELECT user_id, alert_radius_km, sound_enabled, vibration_enabled, critical_alerts_enabled, community_alerts_enabled
		FROM user_preferences
		WHERE user_id = $1;
	`
	prefs := &models.UserPreferences{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.AlertRadiusKm,
		&prefs.SoundEnabled,
		&prefs.VibrationEnabled,
		&prefs.CriticalAlertsEnabled,
		&prefs.CommunityAlertsEnabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("preferences for user %s: %w", userID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences применяет патч настроек поле за полем.
// Обновляются только перечисленные в патче колонки.
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch *models.PreferencesPatch) (*models.UserPreferences, error) {
	query := `
		UPDATE user_preferences SET
			alert_radius_km = $1,
			sound_enabled = $2,
			vibration_enabled = $3,
			critical_alerts_enabled = $4,
			community_alerts_enabled = $5
		WHERE user_id = $6
		RETURNING user_id, alert_radius_km, sound_enabled, vibration_enabled, critical_alerts_enabled, community_alerts_enabled;
	`
	prefs := &models.UserPreferences{}
	err := r.db.QueryRow(ctx, query,
		patch.AlertRadiusKm,
		patch.SoundEnabled,
		patch.VibrationEnabled,
		patch.CriticalAlertsEnabled,
		patch.CommunityAlertsEnabled,
		userID,
	).Scan(
		&prefs.UserID,
		&prefs.AlertRadiusKm,
		&prefs.SoundEnabled,
		&prefs.VibrationEnabled,
		&prefs.CriticalAlertsEnabled,
		&prefs.CommunityAlertsEnabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("preferences for user %s: %w", userID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}

// ListContacts возвращает экстренные контакты пользователя
func (r *UserRepository) ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.EmergencyContact, error) {
	query := `
		SELECT id, user_id, name, phone_number, relationship
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.EmergencyContact, 0)
	for rows.Next() {
		contact := &models.EmergencyContact{}
		err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.Name,
			&contact.PhoneNumber,
			&contact.Relationship,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return contacts, nil
}

// CreateContact создает экстренный контакт
func (r *UserRepository) CreateContact(ctx context.Context, contact *models.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (user_id, name, phone_number, relationship)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		contact.UserID,
		contact.Name,
		contact.PhoneNumber,
		contact.Relationship,
	).Scan(&contact.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// DeleteContact удаляет экстренный контакт пользователя
func (r *UserRepository) DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error {
	query := `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2;`

	cmdTag, err := r.db.Exec(ctx, query, contactID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("contact with id %s: %w", contactID, service.ErrNotFound)
	}
	return nil
}
