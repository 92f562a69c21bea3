package controllers

import (
	"net/http"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	InvoiceSvc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: svc}
}

type invoiceItemRequest struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"`
}

type createInvoiceRequest struct {
	BookingID uint                 `json:"bookingId" binding:"required"`
	Items     []invoiceItemRequest `json:"items"`
	Tax       float64              `json:"tax"`
}

// canView lets staff see every invoice and guests only their own.
func canView(user caller, inv *models.Invoice) bool {
	if user.isStaff() {
		return true
	}
	return inv.Booking != nil && inv.Booking.GuestID == user.ID
}

// GET /api/invoices?isPaid=&bookingId=
func (ctrl *InvoiceController) ListInvoices(c *gin.Context) {
	isPaid, ok := optionalBool(c, "isPaid")
	if !ok {
		return
	}
	bookingID, ok := optionalUint(c, "bookingId")
	if !ok {
		return
	}
	invoices, err := ctrl.InvoiceSvc.ListInvoices(c.Request.Context(), services.InvoiceFilter{IsPaid: isPaid, BookingID: bookingID})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoices)
}

// GET /api/invoices/:id
func (ctrl *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := ctrl.InvoiceSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canView(user, inv) {
		respondError(c, services.Forbiddenf("not authorized to view this invoice"))
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}

// GET /api/invoices/:id/print
func (ctrl *InvoiceController) PrintInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := ctrl.InvoiceSvc.PrintInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canView(user, view.Invoice) {
		respondError(c, services.Forbiddenf("not authorized to view this invoice"))
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// POST /api/invoices
func (ctrl *InvoiceController) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	extra := make([]services.ExtraItem, 0, len(req.Items))
	for _, it := range req.Items {
		extra = append(extra, services.ExtraItem{Description: it.Description, Quantity: it.Quantity, Rate: it.Rate})
	}
	inv, err := ctrl.InvoiceSvc.CreateInvoice(c.Request.Context(), req.BookingID, extra, req.Tax)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, inv)
}

// POST /api/invoices/:id/email
func (ctrl *InvoiceController) EmailInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	receipt, err := ctrl.InvoiceSvc.EmailInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, receipt)
}

// PATCH /api/invoices/:id/pay
func (ctrl *InvoiceController) MarkAsPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := ctrl.InvoiceSvc.MarkAsPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inv)
}
