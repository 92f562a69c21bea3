package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

type createBookingRequest struct {
	GuestID         uint   `json:"guestId"`
	RoomID          uint   `json:"roomId" binding:"required"`
	CheckIn         string `json:"checkIn" binding:"required"`
	CheckOut        string `json:"checkOut" binding:"required"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"specialRequests"`
}

type updateBookingRequest struct {
	CheckIn         *string               `json:"checkIn"`
	CheckOut        *string               `json:"checkOut"`
	Adults          *int                  `json:"adults"`
	Children        *int                  `json:"children"`
	SpecialRequests *string               `json:"specialRequests"`
	Status          *models.BookingStatus `json:"status"`
}

func parseStay(c *gin.Context, rawIn, rawOut string) (time.Time, time.Time, bool) {
	checkIn, err := utils.ParseDate(rawIn)
	if err != nil {
		badRequest(c, "checkIn: "+err.Error())
		return time.Time{}, time.Time{}, false
	}
	checkOut, err := utils.ParseDate(rawOut)
	if err != nil {
		badRequest(c, "checkOut: "+err.Error())
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}

func optionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		badRequest(c, name+": "+err.Error())
		return nil, false
	}
	return &t, true
}

// GET /api/bookings
func (ctrl *BookingController) ListBookings(c *gin.Context) {
	roomID, ok := optionalUint(c, "roomId")
	if !ok {
		return
	}
	guestID, ok := optionalUint(c, "guestId")
	if !ok {
		return
	}
	from, ok := optionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to")
	if !ok {
		return
	}

	bookings, err := ctrl.BookingSvc.ListBookings(c.Request.Context(), services.BookingFilter{
		Status:  models.BookingStatus(c.Query("status")),
		RoomID:  roomID,
		GuestID: guestID,
		From:    from,
		To:      to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/bookings/availability?checkIn=&checkOut=&roomTypeId=
func (ctrl *BookingController) CheckAvailability(c *gin.Context) {
	checkIn, checkOut, ok := parseStay(c, c.Query("checkIn"), c.Query("checkOut"))
	if !ok {
		return
	}
	roomTypeID, ok := optionalUint(c, "roomTypeId")
	if !ok {
		return
	}
	var filter *uint
	if roomTypeID != 0 {
		filter = &roomTypeID
	}

	rooms, err := ctrl.BookingSvc.CheckAvailability(c.Request.Context(), checkIn, checkOut, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/bookings/export?from=&to=
func (ctrl *BookingController) ExportBookings(c *gin.Context) {
	from, to, ok := parseStay(c, c.Query("from"), c.Query("to"))
	if !ok {
		return
	}
	var buf bytes.Buffer
	if _, err := ctrl.BookingSvc.ExportBookings(c.Request.Context(), from, to, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFileName(from, to)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GET /api/bookings/:id
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !user.isStaff() && booking.GuestID != user.ID {
		respondError(c, services.Forbiddenf("not authorized to view this booking"))
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	checkIn, checkOut, ok := parseStay(c, req.CheckIn, req.CheckOut)
	if !ok {
		return
	}

	guestID := req.GuestID
	switch {
	case guestID == 0:
		guestID = user.ID
	case guestID != user.ID && !user.isStaff():
		respondError(c, services.Forbiddenf("guests can only book for themselves"))
		return
	}

	booking, err := ctrl.BookingSvc.CreateBooking(c.Request.Context(), services.CreateBookingInput{
		GuestID:         guestID,
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// PUT /api/bookings/:id
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	in := services.UpdateBookingInput{
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
		Status:          req.Status,
	}
	if req.CheckIn != nil {
		t, err := utils.ParseDate(*req.CheckIn)
		if err != nil {
			badRequest(c, "checkIn: "+err.Error())
			return
		}
		in.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, err := utils.ParseDate(*req.CheckOut)
		if err != nil {
			badRequest(c, "checkOut: "+err.Error())
			return
		}
		in.CheckOut = &t
	}

	booking, err := ctrl.BookingSvc.UpdateBooking(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PATCH /api/bookings/:id/check-in
func (ctrl *BookingController) CheckIn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.CheckIn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// PATCH /api/bookings/:id/check-out
func (ctrl *BookingController) CheckOut(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.CheckOut(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DELETE /api/bookings/:id
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.BookingSvc.DeleteBooking(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "booking deleted"})
}
