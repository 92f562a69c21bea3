package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"hotel-backoffice/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{"Reference", "Guest", "Email", "Room", "Check-in", "Check-out", "Nights", "Status", "Amount"}

// ExportFileName names the workbook for a date range.
func ExportFileName(from, to time.Time) string {
	return fmt.Sprintf("bookings_%s_to_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// ExportBookings writes an xlsx workbook with one row per booking whose stay intersects [from, to].
func (s *BookingService) ExportBookings(ctx context.Context, from, to time.Time, w io.Writer) (int, error) {
	if to.Before(from) {
		return 0, Validationf("to must not be before from")
	}
	bookings, err := s.ListBookings(ctx, BookingFilter{From: &from, To: &to})
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	_ = f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle)

	for i, b := range bookings {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &[]interface{}{
			b.ReferenceCode,
			guestName(b.Guest),
			guestEmail(b.Guest),
			roomNumber(b.Room),
			b.CheckIn.Format("2006-01-02"),
			b.CheckOut.Format("2006-01-02"),
			b.TotalNights,
			string(b.Status),
			b.TotalAmount,
		}); err != nil {
			return 0, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 14)
	_ = f.SetColWidth(exportSheet, "B", "C", 28)
	_ = f.SetColWidth(exportSheet, "D", "I", 14)

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	s.log.Info().Int("rows", len(bookings)).Time("from", from).Time("to", to).Msg("bookings exported")
	return len(bookings), nil
}

func guestName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func guestEmail(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}

func roomNumber(r *models.Room) string {
	if r == nil {
		return ""
	}
	return r.RoomNumber
}
