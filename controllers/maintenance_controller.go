package controllers

import (
	"net/http"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type MaintenanceController struct {
	TicketSvc *services.MaintenanceService
}

func NewMaintenanceController(svc *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{TicketSvc: svc}
}

type createTicketRequest struct {
	RoomID        uint                       `json:"roomId" binding:"required"`
	Issue         string                     `json:"issue" binding:"required"`
	Priority      models.MaintenancePriority `json:"priority"`
	AssignedTo    *uint                      `json:"assignedTo"`
	EstimatedCost float64                    `json:"estimatedCost"`
	Images        []string                   `json:"images"`
	Notes         string                     `json:"notes"`
}

type ticketStatusRequest struct {
	Status     models.MaintenanceStatus `json:"status" binding:"required"`
	AssignedTo *uint                    `json:"assignedTo"`
	Notes      *string                  `json:"notes"`
	ActualCost *float64                 `json:"actualCost"`
	ResolvedAt *string                  `json:"resolvedAt"`
}

// GET /api/maintenance/tickets?status=&priority=
func (ctrl *MaintenanceController) ListTickets(c *gin.Context) {
	tickets, err := ctrl.TicketSvc.List(c.Request.Context(), services.TicketFilter{
		Status:   models.MaintenanceStatus(c.Query("status")),
		Priority: models.MaintenancePriority(c.Query("priority")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tickets)
}

// GET /api/maintenance/tickets/:id
func (ctrl *MaintenanceController) GetTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ticket, err := ctrl.TicketSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

// GET /api/maintenance/room/:roomId/tickets
func (ctrl *MaintenanceController) ListRoomTickets(c *gin.Context) {
	roomID, ok := parseID(c, "roomId")
	if !ok {
		return
	}
	tickets, err := ctrl.TicketSvc.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tickets)
}

// POST /api/maintenance/tickets
func (ctrl *MaintenanceController) CreateTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	ticket, err := ctrl.TicketSvc.Create(c.Request.Context(), services.CreateTicketInput{
		RoomID:        req.RoomID,
		Issue:         req.Issue,
		Priority:      req.Priority,
		ReportedBy:    user.ID,
		AssignedTo:    req.AssignedTo,
		EstimatedCost: req.EstimatedCost,
		Images:        req.Images,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, ticket)
}

// PATCH /api/maintenance/tickets/:id/status
func (ctrl *MaintenanceController) UpdateTicketStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ticketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	var resolvedAt *time.Time
	if req.ResolvedAt != nil {
		t, err := utils.ParseDate(*req.ResolvedAt)
		if err != nil {
			badRequest(c, "resolvedAt: "+err.Error())
			return
		}
		resolvedAt = &t
	}
	ticket, err := ctrl.TicketSvc.UpdateStatus(c.Request.Context(), id, services.TicketStatusUpdate{
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
		ActualCost: req.ActualCost,
		ResolvedAt: resolvedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

// DELETE /api/maintenance/tickets/:id
func (ctrl *MaintenanceController) DeleteTicket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.TicketSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "ticket deleted"})
}
