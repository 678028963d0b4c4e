package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/shenikar/community_alert_system/internal/config"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/repository"
	"github.com/shenikar/community_alert_system/internal/service"
	"github.com/shenikar/community_alert_system/pkg/logger"
	"github.com/shenikar/community_alert_system/pkg/postgres"
	"github.com/sirupsen/logrus"
)

// seedResource - запись из файла наполнения
type seedResource struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	ContactInfo string  `json:"contact_info"`
}

// Утилита наполнения справочника общественных ресурсов.
// Эндпоинта для записи ресурсов нет, это единственный путь их загрузки.
func main() {
	filePath := flag.String("file", "resources.json", "path to JSON file with community resources")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seeds []seedResource
	if err := json.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	ctx := context.Background()

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()

	resourceService := service.NewResourceService(repository.NewResourceRepository(dbpool), log)

	created := 0
	for _, seed := range seeds {
		resource := &models.CommunityResource{
			Name:        seed.Name,
			Type:        models.ResourceType(seed.Type),
			Latitude:    seed.Latitude,
			Longitude:   seed.Longitude,
			Description: seed.Description,
			ContactInfo: seed.ContactInfo,
		}
		if err := resourceService.AddResource(ctx, resource); err != nil {
			log.WithError(err).WithField("name", seed.Name).Error("Failed to seed resource")
			continue
		}
		created++
	}

	log.WithField("count", created).Info("Community resources seeded")
}
