package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking_manager/internal/api/middleware"
	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/service"
)

type ParkingHandler struct {
	parkingService *service.ParkingService
}

func NewParkingHandler(ps *service.ParkingService) *ParkingHandler {
	return &ParkingHandler{parkingService: ps}
}

// POST /api/v1/parkings
func (h *ParkingHandler) CreateParking(c *gin.Context) {
	var dto domain.ParkingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller identity missing"})
		return
	}

	parking, err := h.parkingService.CreateParking(c.Request.Context(), userID, dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create parking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, parking)
}

// GET /api/v1/parkings?area_id=N
func (h *ParkingHandler) GetAllParkings(c *gin.Context) {
	var areaID *int
	if raw := c.Query("area_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area_id filter"})
			return
		}
		areaID = &id
	}

	parkings, err := h.parkingService.ListParkings(c.Request.Context(), areaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list parkings"})
		return
	}
	c.JSON(http.StatusOK, parkings)
}

// GET /api/v1/parkings/:id
func (h *ParkingHandler) GetParkingByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking id"})
		return
	}

	parking, err := h.parkingService.GetParking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch parking"})
		return
	}
	c.JSON(http.StatusOK, parking)
}

// PUT /api/v1/parkings/:id
func (h *ParkingHandler) UpdateParking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking id"})
		return
	}

	var dto domain.ParkingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parking, err := h.parkingService.UpdateParking(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update parking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, parking)
}

// DELETE /api/v1/parkings/:id
func (h *ParkingHandler) DeleteParking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking id"})
		return
	}

	if err := h.parkingService.DeleteParking(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete parking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
