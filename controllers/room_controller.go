package controllers

import (
	"net/http"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

type roomRequest struct {
	RoomNumber   *string            `json:"roomNumber"`
	Floor        *string            `json:"floor"`
	RoomTypeID   *uint              `json:"roomTypeId"`
	Status       *models.RoomStatus `json:"status"`
	CurrentPrice *float64           `json:"currentPrice"`
}

func (r roomRequest) input() services.RoomInput {
	return services.RoomInput{
		RoomNumber:   r.RoomNumber,
		Floor:        r.Floor,
		RoomTypeID:   r.RoomTypeID,
		Status:       r.Status,
		CurrentPrice: r.CurrentPrice,
	}
}

type roomStatusRequest struct {
	Status models.RoomStatus `json:"status" binding:"required"`
}

// GET /api/rooms?status=&roomTypeId=&floor=
func (ctrl *RoomController) ListRooms(c *gin.Context) {
	roomTypeID, ok := optionalUint(c, "roomTypeId")
	if !ok {
		return
	}
	rooms, err := ctrl.RoomSvc.List(c.Request.Context(), services.RoomFilter{
		Status:     models.RoomStatus(c.Query("status")),
		RoomTypeID: roomTypeID,
		Floor:      c.Query("floor"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/available
func (ctrl *RoomController) ListAvailable(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	room, err := ctrl.RoomSvc.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// PUT /api/rooms/:id
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	room, err := ctrl.RoomSvc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// PATCH /api/rooms/:id/status
func (ctrl *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req roomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	room, err := ctrl.RoomSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DELETE /api/rooms/:id
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room deleted"})
}
