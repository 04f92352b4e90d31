package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"assochub/internal/middleware"
	"assochub/internal/model"
	"assochub/internal/service"
)

type EventHandler struct {
	svc *service.EventService
}

type CreateEventReq struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date" binding:"required"`
	Location     string    `json:"location"`
	MaxAttendees int       `json:"maxAttendees" binding:"required,gt=0"`
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	events, total, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	c.JSON(http.StatusOK, gin.H{
		"events":     events,
		"total":      total,
		"totalPages": totalPages(total, limit),
	})
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid params"})
		return
	}

	event, err := h.svc.Create(c.Request.Context(), &model.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// RSVP records the authenticated member against the event.
func (h *EventHandler) RSVP(c *gin.Context) {
	event, err := h.svc.RSVP(c.Request.Context(), c.Param("id"), middleware.UID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CancelRSVP removes the authenticated member's reference; cancelling when
// not attending still succeeds.
func (h *EventHandler) CancelRSVP(c *gin.Context) {
	event, err := h.svc.CancelRSVP(c.Request.Context(), c.Param("id"), middleware.UID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}
