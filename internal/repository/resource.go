package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/service"
)

type ResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) service.ResourceRepository {
	return &ResourceRepository{
		db: db,
	}
}

// Create создает новую запись об общественном ресурсе в бд
func (r *ResourceRepository) Create(ctx context.Context, resource *models.CommunityResource) error {
	query := `
		INSERT INTO community_resources (name, type, location, description, contact_info)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		resource.Name,
		resource.Type,
		resource.Longitude,
		resource.Latitude,
		resource.Description,
		resource.ContactInfo,
	).Scan(&resource.ID)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// ListAll возвращает полный набор общественных ресурсов
func (r *ResourceRepository) ListAll(ctx context.Context) ([]*models.CommunityResource, error) {
	query := `
		SELECT
			id,
			name,
			type,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			COALESCE(description, ''),
			COALESCE(contact_info, '')
		FROM community_resources
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]*models.CommunityResource, 0)
	for rows.Next() {
		resource := &models.CommunityResource{}
		err := rows.Scan(
			&resource.ID,
			&resource.Name,
			&resource.Type,
			&resource.Latitude,
			&resource.Longitude,
			&resource.Description,
			&resource.ContactInfo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource row: %w", err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return resources, nil
}
