package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/service"
)

type AlertRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewAlertRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.AlertRepository {
	return &AlertRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

const alertColumns = `
	id,
	title,
	description,
	category,
	priority,
	verification_status,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	radius_km,
	source,
	is_active,
	user_id,
	created_at
`

func scanAlert(row pgx.Row) (*models.Alert, error) {
	alert := &models.Alert{}
	err := row.Scan(
		&alert.ID,
		&alert.Title,
		&alert.Description,
		&alert.Category,
		&alert.Priority,
		&alert.VerificationStatus,
		&alert.Latitude,
		&alert.Longitude,
		&alert.RadiusKm,
		&alert.Source,
		&alert.IsActive,
		&alert.UserID,
		&alert.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// Create создает новую запись об оповещении в бд. ID и время создания
// назначает база, возвращенные значения записываются обратно в модель.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (title, description, category, priority, verification_status, location, radius_km, source, is_active, user_id)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9, $10, $11)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.Title,
		alert.Description,
		alert.Category,
		alert.Priority,
		alert.VerificationStatus,
		alert.Longitude,
		alert.Latitude,
		alert.RadiusKm,
		alert.Source,
		alert.IsActive,
		alert.UserID,
	).Scan(&alert.ID, &alert.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// GetByID возвращает оповещение по его UUID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE id = $1;`, alertColumns)

	alert, err := scanAlert(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("alert with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}
	return alert, nil
}

// ListActive возвращает все активные оповещения в стабильном порядке
// (новые первыми)
func (r *AlertRepository) ListActive(ctx context.Context) ([]*models.Alert, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM alerts
		WHERE is_active = TRUE
		ORDER BY created_at DESC;
	`, alertColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return alerts, nil
}

// Deactivate устанавливает is_active = FALSE (мягкое удаление,
// физически записи никогда не удаляются)
func (r *AlertRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE alerts SET
			is_active = FALSE
		WHERE id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("alert with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// SetVerificationStatus переводит статус модерации оповещения
func (r *AlertRepository) SetVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error {
	query := `
		UPDATE alerts SET
			verification_status = $1
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to set verification status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("alert with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// GetAlertFromCache пытается получить оповещение из Redis
func (r *AlertRepository) GetAlertFromCache(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	key := fmt.Sprintf("alert:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert from cache: %w", err)
	}

	alert := &models.Alert{}
	if err := json.Unmarshal(val, alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert from cache: %w", err)
	}
	return alert, nil
}

// SetAlertCache сохраняет оповещение в Redis
func (r *AlertRepository) SetAlertCache(ctx context.Context, alert *models.Alert) error {
	key := fmt.Sprintf("alert:%s", alert.ID.String())
	val, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set alert in cache: %w", err)
	}
	return nil
}

// InvalidateAlertCache удаляет оповещение из Redis кэша
func (r *AlertRepository) InvalidateAlertCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("alert:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate alert cache: %w", err)
	}
	return nil
}
