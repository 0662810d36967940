package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitify-app/fitify-api/internal/models"
	"github.com/fitify-app/fitify-api/internal/service"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
	"github.com/fitify-app/fitify-api/pkg/response"
)

// ClassHandler exposes class catalogue endpoints.
type ClassHandler struct {
	classes  *service.ClassService
	trainers *service.TrainerService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes *service.ClassService, trainers *service.TrainerService) *ClassHandler {
	return &ClassHandler{classes: classes, trainers: trainers}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	var filter models.ClassFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "6")); err == nil {
		filter.PageSize = size
	}

	classes, pagination, err := h.classes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// Featured godoc
// @Summary List the most-booked classes
// @Tags Classes
// @Produce json
// @Param limit query int false "Result size"
// @Success 200 {object} response.Envelope
// @Router /classes/featured [get]
func (h *ClassHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	classes, err := h.classes.Featured(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Get godoc
// @Summary Get class detail
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// ForTrainer godoc
// @Summary List classes matching a trainer's expertise
// @Tags Classes
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /classes/trainer/{id} [get]
func (h *ClassHandler) ForTrainer(c *gin.Context) {
	trainer, err := h.trainers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.classes.ForTrainer(c.Request.Context(), trainer.Expertise)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Create godoc
// @Summary Add a class to the catalogue
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}
