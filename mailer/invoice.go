package mailer

import (
	"fmt"
	"html"
	"strings"

	"hotel-backoffice/models"
)

// InvoiceMessage renders an invoice email for the guest.
func InvoiceMessage(to, guestName string, inv models.Invoice) Message {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("Hi %s,\n\nPlease find your invoice #%d below.\n\n", guestName, inv.ID))
	for _, item := range inv.Items {
		text.WriteString(fmt.Sprintf("%-40s %3d x %8.2f = %9.2f\n", item.Description, item.Quantity, item.Rate, item.Amount))
	}
	text.WriteString(fmt.Sprintf("\nSubtotal: %.2f\nTax: %.2f\nTotal: %.2f\n", inv.Subtotal, inv.Tax, inv.Total))
	if inv.IsPaid {
		text.WriteString("\nStatus: PAID\n")
	}

	var rows strings.Builder
	for _, item := range inv.Items {
		rows.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%.2f</td><td>%.2f</td></tr>",
			html.EscapeString(item.Description), item.Quantity, item.Rate, item.Amount))
	}
	htmlBody := fmt.Sprintf(`<!doctype html>
<html><body style="font-family:Arial,Helvetica,sans-serif;color:#222">
<p>Hi %s,</p>
<p>Please find your invoice <strong>#%d</strong> below.</p>
<table cellpadding="6" border="1" style="border-collapse:collapse">
<tr><th>Description</th><th>Qty</th><th>Rate</th><th>Amount</th></tr>%s
</table>
<p>Subtotal: %.2f<br>Tax: %.2f<br><strong>Total: %.2f</strong></p>
</body></html>`,
		html.EscapeString(guestName), inv.ID, rows.String(), inv.Subtotal, inv.Tax, inv.Total)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your invoice #%d", inv.ID),
		Text:    text.String(),
		HTML:    htmlBody,
	}
}
