package controllers

import (
	"net/http"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type RoomTypeController struct {
	RoomTypeSvc *services.RoomTypeService
}

func NewRoomTypeController(svc *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypeSvc: svc}
}

type roomTypeRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"basePrice"`
	Capacity    *int     `json:"capacity"`
	Amenities   []string `json:"amenities"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (r roomTypeRequest) input() services.RoomTypeInput {
	return services.RoomTypeInput{
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Capacity:    r.Capacity,
		Amenities:   r.Amenities,
		IsAvailable: r.IsAvailable,
	}
}

// GET /api/room-types?isAvailable=
func (ctrl *RoomTypeController) ListRoomTypes(c *gin.Context) {
	isAvailable, ok := optionalBool(c, "isAvailable")
	if !ok {
		return
	}
	types, err := ctrl.RoomTypeSvc.List(c.Request.Context(), isAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

// GET /api/room-types/search/:query
func (ctrl *RoomTypeController) SearchRoomTypes(c *gin.Context) {
	types, err := ctrl.RoomTypeSvc.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

// GET /api/room-types/stats/count
func (ctrl *RoomTypeController) RoomTypeStats(c *gin.Context) {
	stats, err := ctrl.RoomTypeSvc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// GET /api/room-types/:id
func (ctrl *RoomTypeController) GetRoomType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rt, err := ctrl.RoomTypeSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// POST /api/room-types
func (ctrl *RoomTypeController) CreateRoomType(c *gin.Context) {
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	rt, err := ctrl.RoomTypeSvc.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

// PUT /api/room-types/:id
func (ctrl *RoomTypeController) UpdateRoomType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	rt, err := ctrl.RoomTypeSvc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// DELETE /api/room-types/:id
func (ctrl *RoomTypeController) DeleteRoomType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.RoomTypeSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room type deleted"})
}
