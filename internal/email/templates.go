package email

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingCancellation = "booking_cancellation"
	TypePaymentSuccess      = "payment_success"
	TypeMembershipGranted   = "membership_granted"
	TypeTrainerApproved     = "trainer_approved"
	TypeTrainerRejected     = "trainer_rejected"
	TypeGeneric             = "generic"
)

const dateLayout = "Mon, Jan 2, 2006 at 3:04 PM"

// Raw HTML in templates is escaped; WithUnsafe is intentionally not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var templates = template.Must(template.New("email").Funcs(template.FuncMap{
	"date":   func(t time.Time) string { return t.Format(dateLayout) },
	"day":    func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"rupiah": FormatRupiah,
}).Parse(`
{{define "booking_confirmation"}}Hi {{.Name}},

Your spot in **{{.ClassName}}** is confirmed.

- When: {{date .When}}
- Trainer: {{.Trainer}}

Need to cancel? You can do it from *My Bookings* any time before the class starts.

See you at the gym!

FitZone Team{{end}}

{{define "booking_cancellation"}}Hi {{.Name}},

Your booking for **{{.ClassName}}** on {{date .When}} has been cancelled.
{{if .Reason}}
Reason: {{.Reason}}
{{end}}
The class credit has been returned to your membership.

FitZone Team{{end}}

{{define "payment_success"}}Hi {{.Name}},

We received your payment of **{{rupiah .Amount}}** for the **{{.Plan}}** plan.

- Order: {{.OrderID}}
- Membership valid until: {{day .Expiry}}

Welcome aboard!

FitZone Team{{end}}

{{define "membership_granted"}}Hi {{.Name}},

An administrator activated the **{{.Plan}}** membership on your account.

- Valid until: {{day .Expiry}}

FitZone Team{{end}}

{{define "trainer_approved"}}Hi {{.Name}},

Good news: your trainer account has been **approved**. You can now create classes and mark attendance.

FitZone Team{{end}}

{{define "trainer_rejected"}}Hi {{.Name}},

Unfortunately your trainer application was **not approved**.

Reason: {{.Reason}}

You can reply to this email if you have questions.

FitZone Team{{end}}
`))

// RenderMarkdown converts a Markdown body into HTML.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// FormatRupiah renders 150000 as "Rp 150.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}
