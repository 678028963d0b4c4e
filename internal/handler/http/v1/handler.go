package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/community_alert_system/internal/config"
	"github.com/shenikar/community_alert_system/internal/geo"
	"github.com/shenikar/community_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	alertService    service.AlertService
	resourceService service.ResourceService
	userService     service.UserService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(
	alertService service.AlertService,
	resourceService service.ResourceService,
	userService service.UserService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		alertService:    alertService,
		resourceService: resourceService,
		userService:     userService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// parseFloatQuery читает опциональный float-параметр запроса.
// Отсутствующий параметр - не ошибка, нечисловой - ошибка.
func parseFloatQuery(c *gin.Context, name string) (*float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be a number", name)
	}
	return &value, nil
}

// @Summary List active alerts
// @Description List active alerts, optionally filtered to a radius around a point. The spatial filter applies only when latitude, longitude and radius are all present; a partial set of parameters means no filter.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param latitude query number false "Center latitude"
// @Param longitude query number false "Center longitude"
// @Param radius query number false "Radius in kilometers"
// @Success 200 {array} AlertResponse
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	var filter service.GeoFilter
	var err error
	if filter.Latitude, err = parseFloatQuery(c, "latitude"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.Longitude, err = parseFloatQuery(c, "longitude"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if filter.RadiusKm, err = parseFloatQuery(c, "radius"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alerts, err := h.alertService.QueryAlerts(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			log.WithError(err).Warn("Invalid coordinates in alert query")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates provided"})
			return
		}
		log.WithError(err).Error("Failed to query alerts in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts))
}

// @Summary Create a new alert
// @Description Create a new alert owned by the authenticated user. Verification status and activity are always server-assigned.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body CreateAlertRequest true "Alert creation request"
// @Success 201 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	var input CreateAlertRequest
	log := h.logger.WithField("method", "createAlert")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := principalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	model := DTOToAlertModel(input, userID)
	if err := h.alertService.CreateAlert(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create alert in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, ModelToAlertResponse(model))
}

// @Summary Find nearby community resources
// @Description Find community resources within a radius of a point. Latitude, longitude and radius are all required.
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param latitude query number true "Center latitude"
// @Param longitude query number true "Center longitude"
// @Param radius query number true "Radius in kilometers"
// @Success 200 {array} ResourceResponse
// @Failure 400 {object} map[string]string "Missing or invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /resources/nearby [get]
func (h *Handler) nearbyResources(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyResources")

	// В отличие от запроса оповещений все три параметра обязательны
	values := make(map[string]float64, 3)
	for _, name := range []string{"latitude", "longitude", "radius"} {
		value, err := parseFloatQuery(c, name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if value == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing required parameter: %s", name)})
			return
		}
		values[name] = *value
	}

	resources, err := h.resourceService.NearbyResources(c.Request.Context(), values["latitude"], values["longitude"], values["radius"])
	if err != nil {
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			log.WithError(err).Warn("Invalid coordinates in resource query")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates provided"})
			return
		}
		log.WithError(err).Error("Failed to find nearby resources in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToResourceResponses(resources))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
