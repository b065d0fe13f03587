package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parking_manager/internal/api/middleware"
	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/service"
)

type SectionHandler struct {
	parkingService *service.ParkingService
}

func NewSectionHandler(ps *service.ParkingService) *SectionHandler {
	return &SectionHandler{parkingService: ps}
}

// POST /api/v1/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var dto domain.ParkingSectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller identity missing"})
		return
	}

	section, err := h.parkingService.CreateSection(c.Request.Context(), userID, dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create section", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, section)
}

// GET /api/v1/sections?parking_id=N
func (h *SectionHandler) GetAllSections(c *gin.Context) {
	var parkingID *int
	if raw := c.Query("parking_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking_id filter"})
			return
		}
		parkingID = &id
	}

	sections, err := h.parkingService.ListSections(c.Request.Context(), parkingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sections"})
		return
	}
	c.JSON(http.StatusOK, sections)
}

// GET /api/v1/sections/:id
func (h *SectionHandler) GetSectionByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
		return
	}

	section, err := h.parkingService.GetSection(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch section"})
		return
	}
	c.JSON(http.StatusOK, section)
}

// PUT /api/v1/sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
		return
	}

	var dto domain.ParkingSectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.parkingService.UpdateSection(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update section", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, section)
}

// DELETE /api/v1/sections/:id
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
		return
	}

	if err := h.parkingService.DeleteSection(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete section", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
