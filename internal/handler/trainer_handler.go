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

// TrainerHandler exposes trainer application and availability endpoints.
type TrainerHandler struct {
	trainers *service.TrainerService
}

// NewTrainerHandler constructs TrainerHandler.
func NewTrainerHandler(trainers *service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainers: trainers}
}

// List godoc
// @Summary List trainers
// @Tags Trainers
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /trainers [get]
func (h *TrainerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	trainers, pagination, err := h.trainers.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, pagination)
}

// Approved godoc
// @Summary List approved trainers
// @Tags Trainers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /trainers/approved [get]
func (h *TrainerHandler) Approved(c *gin.Context) {
	trainers, err := h.trainers.ListApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, nil)
}

// Random godoc
// @Summary Sample approved trainers
// @Tags Trainers
// @Produce json
// @Param limit query int false "Sample size"
// @Success 200 {object} response.Envelope
// @Router /trainers/random [get]
func (h *TrainerHandler) Random(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))
	trainers, err := h.trainers.Random(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, nil)
}

// Get godoc
// @Summary Get trainer detail
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id} [get]
func (h *TrainerHandler) Get(c *gin.Context) {
	trainer, err := h.trainers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// GetByEmail godoc
// @Summary Get trainer detail by email
// @Tags Trainers
// @Produce json
// @Param email path string true "Trainer email"
// @Success 200 {object} response.Envelope
// @Router /trainers/email/{email} [get]
func (h *TrainerHandler) GetByEmail(c *gin.Context) {
	trainer, err := h.trainers.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainer, nil)
}

// Pending godoc
// @Summary List pending trainer applications
// @Tags Trainers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /trainers/applications [get]
func (h *TrainerHandler) Pending(c *gin.Context) {
	trainers, err := h.trainers.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, nil)
}

// MyApplications godoc
// @Summary List the caller's own applications
// @Tags Trainers
// @Produce json
// @Param email path string true "Applicant email"
// @Success 200 {object} response.Envelope
// @Router /trainers/applications/{email} [get]
func (h *TrainerHandler) MyApplications(c *gin.Context) {
	trainers, err := h.trainers.MyApplications(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainers, nil)
}

// Apply godoc
// @Summary Submit a trainer application
// @Tags Trainers
// @Accept json
// @Produce json
// @Param payload body service.ApplyTrainerRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /trainers/apply [post]
func (h *TrainerHandler) Apply(c *gin.Context) {
	var req service.ApplyTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	trainer, err := h.trainers.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, trainer)
}

// Approve godoc
// @Summary Approve a trainer application
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id}/approve [post]
func (h *TrainerHandler) Approve(c *gin.Context) {
	result, err := h.trainers.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reject godoc
// @Summary Reject a trainer application with feedback
// @Tags Trainers
// @Accept json
// @Produce json
// @Param id path string true "Trainer ID"
// @Param payload body service.RejectTrainerRequest true "Feedback payload"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id}/reject [post]
func (h *TrainerHandler) Reject(c *gin.Context) {
	var req service.RejectTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.trainers.Reject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Demote godoc
// @Summary Return an approved trainer to the applicant pool
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id}/demote [post]
func (h *TrainerHandler) Demote(c *gin.Context) {
	result, err := h.trainers.Demote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AddSlot godoc
// @Summary Merge availability into the caller's slot tree
// @Tags Trainers
// @Accept json
// @Produce json
// @Param payload body service.AddSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /trainers/slots [post]
func (h *TrainerHandler) AddSlot(c *gin.Context) {
	var req service.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	// The token is authoritative: trainers edit their own tree only.
	if claims := claimsFromContext(c); claims != nil && claims.Role != models.RoleAdmin {
		req.Email = claims.Email
	}
	slots, err := h.trainers.AddSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// RemoveSlot godoc
// @Summary Delete one time entry from a trainer's slot tree
// @Tags Trainers
// @Accept json
// @Produce json
// @Param id path string true "Trainer ID"
// @Param payload body service.RemoveSlotRequest true "Slot address"
// @Success 200 {object} response.Envelope
// @Router /trainers/{id}/slots [delete]
func (h *TrainerHandler) RemoveSlot(c *gin.Context) {
	var req service.RemoveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actor := ""
	if claims := claimsFromContext(c); claims != nil && claims.Role != models.RoleAdmin {
		actor = claims.Email
	}
	slots, err := h.trainers.RemoveSlot(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Reconcile godoc
// @Summary Repair role drift for a trainer email
// @Tags Trainers
// @Produce json
// @Param email path string true "Trainer email"
// @Success 204 {object} nil
// @Router /trainers/reconcile/{email} [post]
func (h *TrainerHandler) Reconcile(c *gin.Context) {
	if err := h.trainers.Reconcile(c.Request.Context(), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
