package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-backoffice/events"
	"hotel-backoffice/mailer"
	"hotel-backoffice/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceService issues invoices for bookings and tracks payment and delivery.
type InvoiceService struct {
	DB *gorm.DB
	deps
}

func NewInvoiceService(db *gorm.DB, opts ...Option) *InvoiceService {
	return &InvoiceService{DB: db, deps: newDeps(opts)}
}

// ExtraItem is a caller-supplied invoice line. Amount is never accepted from callers.
type ExtraItem struct {
	Description string
	Quantity    int
	Rate        float64
}

type InvoiceFilter struct {
	IsPaid    *bool
	BookingID uint
}

type EmailReceipt struct {
	InvoiceID uint   `json:"invoiceId"`
	EmailedTo string `json:"emailedTo"`
	Message   string `json:"message"`
}

type PrintView struct {
	Invoice     *models.Invoice `json:"invoice"`
	PrintFormat string          `json:"printFormat"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

func invoiceKey(id uint) string {
	return fmt.Sprintf("invoice:%d", id)
}

func buildExtraItems(extra []ExtraItem) ([]models.InvoiceItem, error) {
	items := make([]models.InvoiceItem, 0, len(extra))
	for i, e := range extra {
		desc := strings.TrimSpace(e.Description)
		if desc == "" {
			return nil, Validationf("items[%d]: description is required", i)
		}
		qty := e.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 1 {
			return nil, Validationf("items[%d]: quantity must be at least 1", i)
		}
		if e.Rate < 0 {
			return nil, Validationf("items[%d]: rate cannot be negative", i)
		}
		items = append(items, models.InvoiceItem{Description: desc, Quantity: qty, Rate: e.Rate})
	}
	return items, nil
}

// CreateInvoice bills the booking's room charge followed by any extra items.
func (s *InvoiceService) CreateInvoice(ctx context.Context, bookingID uint, extra []ExtraItem, tax float64) (*models.Invoice, error) {
	if tax < 0 {
		return nil, Validationf("tax cannot be negative")
	}
	extraItems, err := buildExtraItems(extra)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var booking models.Booking
	if err := db.Preload("Room").First(&booking, bookingID).Error; err != nil {
		return nil, storeError(err, "booking")
	}
	if booking.Room == nil {
		return nil, NotFoundf("room for booking %d not found", bookingID)
	}

	items := append([]models.InvoiceItem{
		models.RoomChargeItem(booking.Room.RoomNumber, booking.TotalNights, booking.Room.CurrentPrice),
	}, extraItems...)

	inv := models.Invoice{
		BookingID: booking.ID,
		Items:     datatypes.JSONSlice[models.InvoiceItem](items),
		Tax:       tax,
		IssuedAt:  s.now().UTC(),
	}
	inv.Recalculate()

	if err := db.Create(&inv).Error; err != nil {
		return nil, storeError(err, "invoice")
	}
	s.log.Info().Uint("invoice_id", inv.ID).Uint("booking_id", booking.ID).Float64("total", inv.Total).Msg("invoice created")
	return &inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.WithContext(ctx).Preload("Booking").First(&inv, id).Error; err != nil {
		return nil, storeError(err, "invoice")
	}
	return &inv, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	q := s.DB.WithContext(ctx)
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}
	if f.BookingID != 0 {
		q = q.Where("booking_id = ?", f.BookingID)
	}
	invoices := []models.Invoice{}
	if err := q.Order("issued_at DESC").Order("id DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// MarkAsPaid is idempotent. PaidAt keeps the first payment time.
func (s *InvoiceService) MarkAsPaid(ctx context.Context, id uint) (*models.Invoice, error) {
	db := s.DB.WithContext(ctx)
	var inv models.Invoice
	if err := db.First(&inv, id).Error; err != nil {
		return nil, storeError(err, "invoice")
	}
	if inv.IsPaid {
		return &inv, nil
	}

	paidAt := s.now().UTC()
	res := db.Model(&models.Invoice{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{"is_paid": true, "paid_at": paidAt})
	if res.Error != nil {
		return nil, fmt.Errorf("mark invoice paid: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info().Uint("invoice_id", id).Msg("invoice paid")
		s.publish(events.InvoicePaid, invoiceKey(id), events.InvoicePayload{
			InvoiceID: id, BookingID: inv.BookingID, Total: inv.Total,
		})
	}
	return s.GetInvoice(ctx, id)
}

// EmailInvoice records the recipient and queues delivery. Delivery itself is asynchronous.
func (s *InvoiceService) EmailInvoice(ctx context.Context, id uint) (*EmailReceipt, error) {
	db := s.DB.WithContext(ctx)
	var inv models.Invoice
	if err := db.Preload("Booking.Guest").First(&inv, id).Error; err != nil {
		return nil, storeError(err, "invoice")
	}
	if inv.Booking == nil || inv.Booking.Guest == nil || strings.TrimSpace(inv.Booking.Guest.Email) == "" {
		return nil, NotFoundf("guest email for invoice %d not found", id)
	}
	guest := inv.Booking.Guest

	now := s.now().UTC()
	if err := db.Model(&models.Invoice{}).Where("id = ?", id).
		Updates(map[string]interface{}{"emailed_to": guest.Email, "emailed_at": now}).Error; err != nil {
		return nil, fmt.Errorf("record invoice email: %w", err)
	}
	inv.EmailedTo = guest.Email
	inv.EmailedAt = &now

	if s.mail != nil {
		if err := s.mail.Enqueue(mailer.InvoiceMessage(guest.Email, guest.Name, inv)); err != nil {
			if !errors.Is(err, mailer.ErrQueueFull) && !errors.Is(err, mailer.ErrPoolClosed) {
				return nil, fmt.Errorf("queue invoice email: %w", err)
			}
			s.log.Warn().Err(err).Uint("invoice_id", id).Msg("invoice email not queued")
		}
	} else {
		s.log.Warn().Uint("invoice_id", id).Msg("no mail queue configured, invoice email skipped")
	}

	s.publish(events.InvoiceEmailed, invoiceKey(id), events.InvoicePayload{
		InvoiceID: id, BookingID: inv.BookingID, Total: inv.Total, EmailedTo: guest.Email,
	})
	return &EmailReceipt{
		InvoiceID: id,
		EmailedTo: guest.Email,
		Message:   fmt.Sprintf("Invoice sent to %s", guest.Email),
	}, nil
}

func (s *InvoiceService) PrintInvoice(ctx context.Context, id uint) (*PrintView, error) {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PrintView{Invoice: inv, PrintFormat: "PDF", GeneratedAt: s.now().UTC()}, nil
}
