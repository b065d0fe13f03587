package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parking_manager/internal/api/middleware"
	"parking_manager/internal/domain"
	"parking_manager/internal/repository"
	"parking_manager/internal/service"
)

type PassHandler struct {
	ticketService *service.TicketService
}

func NewPassHandler(ts *service.TicketService) *PassHandler {
	return &PassHandler{ticketService: ts}
}

// POST /api/v1/passes
func (h *PassHandler) CreatePass(c *gin.Context) {
	var dto domain.PassDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller identity missing"})
		return
	}

	pass, err := h.ticketService.CreatePass(c.Request.Context(), userID, dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create pass", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pass)
}

// GET /api/v1/passes
func (h *PassHandler) GetAllPasses(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller identity missing"})
		return
	}

	passes, err := h.ticketService.ListPasses(c.Request.Context(), userID, middleware.CallerIsAdmin(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list passes"})
		return
	}
	c.JSON(http.StatusOK, passes)
}

// GET /api/v1/passes/:id
func (h *PassHandler) GetPassByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pass id"})
		return
	}

	pass, err := h.ticketService.GetPass(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch pass"})
		return
	}

	userID, _ := middleware.CallerID(c)
	if pass.UserID != userID && !middleware.CallerIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "pass belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, pass)
}

// PUT /api/v1/passes/:id
func (h *PassHandler) UpdatePass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pass id"})
		return
	}

	var dto domain.PassDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.CallerID(c)
	pass, err := h.ticketService.UpdatePass(c.Request.Context(), id, userID, middleware.CallerIsAdmin(c), dto)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update pass", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pass)
}

// DELETE /api/v1/passes/:id
func (h *PassHandler) DeletePass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pass id"})
		return
	}

	userID, _ := middleware.CallerID(c)
	if err := h.ticketService.DeletePass(c.Request.Context(), id, userID, middleware.CallerIsAdmin(c)); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete pass", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
