package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты аутентификации
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh", h.refresh)
	}

	// Маршруты, требующие действительного principal
	protected := api.Group("")
	protected.Use(JWTAuthMiddleware(h.cfg, h.logger))
	{
		alerts := protected.Group("/alerts")
		{
			alerts.GET("", h.listAlerts)
			alerts.POST("", h.createAlert)
		}

		protected.GET("/resources/nearby", h.nearbyResources)

		users := protected.Group("/users")
		{
			users.GET("/:id", h.getUser)
			users.GET("/:id/preferences", h.getPreferences)
			users.PUT("/:id/preferences", h.updatePreferences)
			users.GET("/:id/contacts", h.listContacts)
			users.POST("/:id/contacts", h.addContact)
			users.DELETE("/:id/contacts/:contactID", h.removeContact)
		}
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
