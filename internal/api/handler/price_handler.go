package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/service"
)

type PriceHandler struct {
	parkingService *service.ParkingService
}

func NewPriceHandler(ps *service.ParkingService) *PriceHandler {
	return &PriceHandler{parkingService: ps}
}

// POST /api/v1/prices (admin only)
func (h *PriceHandler) CreatePrice(c *gin.Context) {
	var dto domain.ParkingPriceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := h.parkingService.CreatePrice(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create price", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, price)
}

// GET /api/v1/prices?section_id=UUID
func (h *PriceHandler) GetAllPrices(c *gin.Context) {
	var sectionID *uuid.UUID
	if raw := c.Query("section_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section_id filter"})
			return
		}
		sectionID = &id
	}

	prices, err := h.parkingService.ListPrices(c.Request.Context(), sectionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list prices"})
		return
	}
	c.JSON(http.StatusOK, prices)
}

// GET /api/v1/prices/:id
func (h *PriceHandler) GetPriceByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price id"})
		return
	}

	price, err := h.parkingService.GetPrice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "price not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch price"})
		return
	}
	c.JSON(http.StatusOK, price)
}

// PUT /api/v1/prices/:id (admin only)
func (h *PriceHandler) UpdatePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price id"})
		return
	}

	var dto domain.ParkingPriceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := h.parkingService.UpdatePrice(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "price not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update price", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, price)
}

// DELETE /api/v1/prices/:id (admin only)
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price id"})
		return
	}

	if err := h.parkingService.DeletePrice(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "price not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete price", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
