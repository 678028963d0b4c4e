package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/community_alert_system/internal/models"
	"github.com/shenikar/community_alert_system/internal/service"
)

// ownedUserID разбирает id пользователя из пути и проверяет, что он
// совпадает с principal. Несовпадение отклоняется до обращения к хранилищу.
func (h *Handler) ownedUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return uuid.Nil, false
	}

	principal, ok := principalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return uuid.Nil, false
	}

	if id != principal {
		h.logger.WithField("method", c.FullPath()).Warn("Principal mismatch for user-scoped resource")
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return uuid.Nil, false
	}

	return id, true
}

// @Summary Get user by ID
// @Description Get the authenticated user's own profile. Accessing another user is rejected.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.ownedUserID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getUser").WithField("user_id", id)

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.WithError(err).Error("Failed to get user from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Get user preferences
// @Description Get the authenticated user's notification preferences.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} PreferencesResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Preferences not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id}/preferences [get]
func (h *Handler) getPreferences(c *gin.Context) {
	id, ok := h.ownedUserID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getPreferences").WithField("user_id", id)

	prefs, err := h.userService.GetPreferences(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "preferences not found"})
			return
		}
		log.WithError(err).Error("Failed to get preferences from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToPreferencesResponse(prefs))
}

// @Summary Update user preferences
// @Description Update the authenticated user's notification preferences. Only the fields enumerated in the request are mutable.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param preferences body UpdatePreferencesRequest true "Preferences update request"
// @Success 200 {object} PreferencesResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Preferences not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id}/preferences [put]
func (h *Handler) updatePreferences(c *gin.Context) {
	id, ok := h.ownedUserID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updatePreferences").WithField("user_id", id)

	var input UpdatePreferencesRequest
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

	prefs, err := h.userService.UpdatePreferences(c.Request.Context(), id, DTOToPreferencesPatch(input))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "preferences not found"})
			return
		}
		log.WithError(err).Error("Failed to update preferences in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToPreferencesResponse(prefs))
}

// @Summary List emergency contacts
// @Description List the authenticated user's emergency contacts.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} ContactResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id}/contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	id, ok := h.ownedUserID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listContacts").WithField("user_id", id)

	contacts, err := h.userService.ListContacts(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("Failed to list contacts from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToContactResponses(contacts))
}

// @Summary Add an emergency contact
// @Description Add an emergency contact for the authenticated user.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param contact body CreateContactRequest true "Contact creation request"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id}/contacts [post]
func (h *Handler) addContact(c *gin.Context) {
	id, ok := h.ownedUserID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "addContact").WithField("user_id", id)

	var input CreateContactRequest
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

	contact := &models.EmergencyContact{
		UserID:       id,
		Name:         input.Name,
		PhoneNumber:  input.PhoneNumber,
		Relationship: input.Relationship,
	}
	if err := h.userService.AddContact(c.Request.Context(), contact); err != nil {
		log.WithError(err).Error("Failed to add contact in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, ModelToContactResponse(contact))
}

// @Summary Remove an emergency contact
// @Description Remove one of the authenticated user's emergency contacts.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param contactID path string true "Contact ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id}/contacts/{contactID} [delete]
func (h *Handler) removeContact(c *gin.Context) {
	id, ok := h.ownedUserID(c)
	if !ok {
		return
	}

	contactID, err := uuid.Parse(c.Param("contactID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	log := h.logger.WithField("method", "removeContact").WithField("user_id", id)

	if err := h.userService.RemoveContact(c.Request.Context(), id, contactID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		log.WithError(err).Error("Failed to remove contact in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
