package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/service"
)

type AreaHandler struct {
	parkingService    *service.ParkingService
	allocationService *service.AllocationService
}

func NewAreaHandler(ps *service.ParkingService, as *service.AllocationService) *AreaHandler {
	return &AreaHandler{parkingService: ps, allocationService: as}
}

// POST /api/v1/areas (admin only)
func (h *AreaHandler) CreateArea(c *gin.Context) {
	var dto domain.AreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.parkingService.CreateArea(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create area", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, area)
}

// GET /api/v1/areas
func (h *AreaHandler) GetAllAreas(c *gin.Context) {
	areas, err := h.parkingService.ListAreas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list areas"})
		return
	}
	c.JSON(http.StatusOK, areas)
}

// GET /api/v1/areas/:id
func (h *AreaHandler) GetAreaByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area id"})
		return
	}

	area, err := h.parkingService.GetArea(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch area"})
		return
	}
	c.JSON(http.StatusOK, area)
}

// PUT /api/v1/areas/:id (admin only)
func (h *AreaHandler) UpdateArea(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area id"})
		return
	}

	var dto domain.AreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.parkingService.UpdateArea(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
			return
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update area", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, area)
}

// DELETE /api/v1/areas/:id (admin only)
func (h *AreaHandler) DeleteArea(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area id"})
		return
	}

	if err := h.parkingService.DeleteArea(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete area", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// POST /api/v1/areas/allocate
func (h *AreaHandler) AllocateCapacity(c *gin.Context) {
	var dto domain.AllocateAreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.allocationService.AllocateArea(c.Request.Context(), *dto.Capacity)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNoCapacity) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate capacity", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, domain.AllocationResultDTO{
		AreaID:            area.ID,
		Status:            "allocated",
		RemainingCapacity: area.Capacity,
	})
}

// POST /api/v1/areas/:id/allocate
func (h *AreaHandler) AllocateCapacityFromArea(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area id"})
		return
	}

	var dto domain.AllocateAreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.allocationService.AllocateFromArea(c.Request.Context(), id, *dto.Capacity)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
			return
		}
		if errors.Is(err, repository.ErrNoCapacity) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate capacity", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, domain.AllocationResultDTO{
		AreaID:            area.ID,
		Status:            "allocated",
		RemainingCapacity: area.Capacity,
	})
}

// POST /api/v1/areas/:id/release
func (h *AreaHandler) ReleaseCapacity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area id"})
		return
	}

	var dto domain.ReleaseAreaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.allocationService.ReleaseArea(c.Request.Context(), id, *dto.Capacity)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not release capacity", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, domain.AllocationResultDTO{
		AreaID:            area.ID,
		Status:            "released",
		RemainingCapacity: area.Capacity,
	})
}
