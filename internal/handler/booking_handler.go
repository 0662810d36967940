package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitify-app/fitify-api/internal/service"
	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
	"github.com/fitify-app/fitify-api/pkg/response"
)

// BookingHandler exposes booking and balance endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create godoc
// @Summary Record a paid booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	booking, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// ForTrainer godoc
// @Summary List bookings against a trainer
// @Tags Bookings
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} response.Envelope
// @Router /bookings/trainer/{id} [get]
func (h *BookingHandler) ForTrainer(c *gin.Context) {
	bookings, err := h.bookings.ForTrainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

// ForMember godoc
// @Summary List the caller's own bookings
// @Tags Bookings
// @Produce json
// @Param email path string true "Member email"
// @Success 200 {object} response.Envelope
// @Router /bookings/member/{email} [get]
func (h *BookingHandler) ForMember(c *gin.Context) {
	bookings, err := h.bookings.ForMember(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

// Balance godoc
// @Summary Admin balance overview
// @Tags Bookings
// @Produce json
// @Param last query int false "Number of recent payments"
// @Success 200 {object} response.Envelope
// @Router /admin/balance [get]
func (h *BookingHandler) Balance(c *gin.Context) {
	lastN, _ := strconv.Atoi(c.DefaultQuery("last", "6"))
	overview, err := h.bookings.BalanceOverview(c.Request.Context(), lastN)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// MembershipStats godoc
// @Summary Subscribers versus paying members
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/membership-stats [get]
func (h *BookingHandler) MembershipStats(c *gin.Context) {
	stats, err := h.bookings.MembershipStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
