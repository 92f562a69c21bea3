package controllers

import (
	"net/http"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type HousekeepingController struct {
	TaskSvc *services.HousekeepingService
}

func NewHousekeepingController(svc *services.HousekeepingService) *HousekeepingController {
	return &HousekeepingController{TaskSvc: svc}
}

type createTaskRequest struct {
	RoomID     uint   `json:"roomId" binding:"required"`
	Task       string `json:"task" binding:"required"`
	DueDate    string `json:"dueDate" binding:"required"`
	AssignedTo *uint  `json:"assignedTo"`
	Notes      string `json:"notes"`
}

type taskStatusRequest struct {
	Status      models.HousekeepingStatus `json:"status" binding:"required"`
	CompletedAt *string                   `json:"completedAt"`
	Notes       *string                   `json:"notes"`
}

// GET /api/housekeeping/tasks?status=&date=
func (ctrl *HousekeepingController) ListTasks(c *gin.Context) {
	date, ok := optionalDate(c, "date")
	if !ok {
		return
	}
	tasks, err := ctrl.TaskSvc.List(c.Request.Context(), services.TaskFilter{
		Status: models.HousekeepingStatus(c.Query("status")),
		Date:   date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tasks)
}

// GET /api/housekeeping/tasks/:id
func (ctrl *HousekeepingController) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := ctrl.TaskSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, task)
}

// POST /api/housekeeping/tasks
func (ctrl *HousekeepingController) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	due, err := utils.ParseDate(req.DueDate)
	if err != nil {
		badRequest(c, "dueDate: "+err.Error())
		return
	}
	task, err := ctrl.TaskSvc.Create(c.Request.Context(), services.CreateTaskInput{
		RoomID:     req.RoomID,
		Task:       req.Task,
		DueDate:    due,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, task)
}

// PATCH /api/housekeeping/tasks/:id/status
func (ctrl *HousekeepingController) UpdateTaskStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req taskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	var completedAt *time.Time
	if req.CompletedAt != nil {
		t, err := utils.ParseDate(*req.CompletedAt)
		if err != nil {
			badRequest(c, "completedAt: "+err.Error())
			return
		}
		completedAt = &t
	}
	task, err := ctrl.TaskSvc.UpdateStatus(c.Request.Context(), id, services.TaskStatusUpdate{
		Status:      req.Status,
		CompletedAt: completedAt,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, task)
}

// DELETE /api/housekeeping/tasks/:id
func (ctrl *HousekeepingController) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.TaskSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "task deleted"})
}
