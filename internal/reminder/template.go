package reminder

import (
	"fmt"
	"html"
	"strings"

	"github.com/roach88/licensewatch/internal/model"
)

// Email rendering for expiry reminders. This is a formatting concern, not
// part of the dedup core: the contract is (driver, daysRemaining) in,
// subject plus HTML and plain-text bodies out.

// longDateFormat renders expiry dates the way the reminder emails show
// them, e.g. "June 7, 2025".
const longDateFormat = "January 2, 2006"

// EmailSubject returns the reminder subject line for a driver and
// threshold. The 1-day case gets urgent wording.
func EmailSubject(d model.Driver, daysRemaining int) string {
	switch daysRemaining {
	case 1:
		return fmt.Sprintf("URGENT: Driver License Expiring Tomorrow - %s", d.FullName())
	case 7:
		return fmt.Sprintf("Driver License Expiring in 7 Days - %s", d.FullName())
	default:
		return fmt.Sprintf("Driver License Expiring in %d Days - %s", daysRemaining, d.FullName())
	}
}

// EmailBodies returns the HTML body and its plain-text twin for a reminder
// email: a structured summary of the driver, license number, formatted
// expiry date and phone number, plus a countdown phrase.
func EmailBodies(d model.Driver, daysRemaining int) (htmlBody, textBody string) {
	expiry := d.ExpiryDate.Format(longDateFormat)

	var b strings.Builder
	b.WriteString("<h3>Driver License Expiry Notification</h3>")
	b.WriteString("<p>This is an automated reminder that the following driver license will expire soon:</p>")
	b.WriteString(`<table style="border-collapse: collapse; width: 100%; margin-bottom: 20px;">`)
	writeRow(&b, "Driver", d.FullName())
	writeRow(&b, "License Number", d.LicenseNumber)
	writeRow(&b, "Expiry Date", expiry)
	writeRow(&b, "Phone Number", d.PhoneNumber)
	b.WriteString("</table>")
	if daysRemaining == 1 {
		b.WriteString("<p><strong>The license will expire tomorrow!</strong></p>")
	} else {
		fmt.Fprintf(&b, "<p><strong>Days remaining until expiry: %d</strong></p>", daysRemaining)
	}
	b.WriteString("<p>Please ensure this license is renewed before it expires.</p>")
	b.WriteString("<p>This is an automated message from Driver License Management System.</p>")

	var t strings.Builder
	t.WriteString("Driver License Expiry Notification\n\n")
	t.WriteString("This is an automated reminder that the following driver license will expire soon:\n\n")
	fmt.Fprintf(&t, "Driver: %s\n", d.FullName())
	fmt.Fprintf(&t, "License Number: %s\n", d.LicenseNumber)
	fmt.Fprintf(&t, "Expiry Date: %s\n", expiry)
	fmt.Fprintf(&t, "Phone Number: %s\n\n", d.PhoneNumber)
	if daysRemaining == 1 {
		t.WriteString("The license will expire tomorrow!\n\n")
	} else {
		fmt.Fprintf(&t, "Days remaining until expiry: %d\n\n", daysRemaining)
	}
	t.WriteString("Please ensure this license is renewed before it expires.\n")
	t.WriteString("This is an automated message from Driver License Management System.\n")

	return b.String(), t.String()
}

// AlertMessage returns the short in-app alert text for a driver's owner.
func AlertMessage(d model.Driver, daysRemaining int) string {
	if daysRemaining == 1 {
		return fmt.Sprintf("License %s for %s expires tomorrow (%s)",
			d.LicenseNumber, d.FullName(), model.FormatDate(d.ExpiryDate))
	}
	return fmt.Sprintf("License %s for %s expires in %d days (%s)",
		d.LicenseNumber, d.FullName(), daysRemaining, model.FormatDate(d.ExpiryDate))
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<tr><td style="padding: 8px; border: 1px solid #ddd;"><strong>%s:</strong></td>`, label)
	fmt.Fprintf(b, `<td style="padding: 8px; border: 1px solid #ddd;">%s</td></tr>`, html.EscapeString(value))
}
