package controllers

import (
	"net/http"
	"strconv"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackSvc *services.FeedbackService
}

func NewFeedbackController(svc *services.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackSvc: svc}
}

type submitFeedbackRequest struct {
	BookingID uint   `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name+" must be a number")
		return 0, false
	}
	return v, true
}

// GET /api/feedback?rating=&page=&limit=
func (ctrl *FeedbackController) ListFeedback(c *gin.Context) {
	filter := services.FeedbackFilter{}
	var ok bool
	if filter.Rating, ok = queryInt(c, "rating"); !ok {
		return
	}
	if filter.Page, ok = queryInt(c, "page"); !ok {
		return
	}
	if filter.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}
	filter.Normalize()

	items, total, err := ctrl.FeedbackSvc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONPage(c, http.StatusOK, items, utils.NewPageMeta(filter.Page, filter.Limit, total))
}

// GET /api/feedback/stats
func (ctrl *FeedbackController) FeedbackStats(c *gin.Context) {
	stats, err := ctrl.FeedbackSvc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// GET /api/feedback/:id
func (ctrl *FeedbackController) GetFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fb, err := ctrl.FeedbackSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, fb)
}

// POST /api/feedback
func (ctrl *FeedbackController) SubmitFeedback(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	fb, err := ctrl.FeedbackSvc.Submit(c.Request.Context(), user.ID, req.BookingID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, fb)
}

// DELETE /api/feedback/:id
func (ctrl *FeedbackController) DeleteFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.FeedbackSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "feedback deleted"})
}
