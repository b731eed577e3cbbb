package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/pkg/enums"
)

// MeasurementLine is one bullet in the visit log.
type MeasurementLine struct {
	Label  string
	Width  string
	Height string
	Qty    int
}

// VisitLog is the summary shared with the owner after a site visit.
type VisitLog struct {
	BusinessName    string
	ClientName      string
	ClientPhone     string
	Location        string
	MapURL          string
	Unit            enums.MeasurementUnit
	Measurements    []MeasurementLine
	CalculatedTotal decimal.Decimal
	FieldQuote      int64
}

// Text renders the visit log in the WhatsApp markup the owner expects.
func (v VisitLog) Text() string {
	business := strings.TrimSpace(v.BusinessName)
	if business == "" {
		business = "SUNIL FABRICATIONS"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s VISIT LOG*\n\n", strings.ToUpper(business))
	fmt.Fprintf(&b, "*Client:* %s\n", v.ClientName)
	fmt.Fprintf(&b, "*Phone:* %s\n", v.ClientPhone)
	fmt.Fprintf(&b, "*Location:* %s", v.Location)
	if v.MapURL != "" {
		fmt.Fprintf(&b, "\n*Exact Location:* %s", v.MapURL)
	}
	fmt.Fprintf(&b, "\n\n*Measurements (Units: %s):*\n", v.Unit)
	for i, m := range v.Measurements {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s: %s x %s (Qty: %d)", m.Label, m.Width, m.Height, m.Qty)
	}
	fmt.Fprintf(&b, "\n\n*Calculated Total:* Rs. %s\n", groupThousands(v.CalculatedTotal))
	if v.FieldQuote > 0 {
		fmt.Fprintf(&b, "*Field Quote:* Rs. %d", v.FieldQuote)
	} else {
		b.WriteString("*Field Quote:* Rs. N/A")
	}
	return b.String()
}

// PlainText strips the WhatsApp markup for clipboard copies.
func (v VisitLog) PlainText() string {
	return strings.ReplaceAll(v.Text(), "*", "")
}

// Link builds the wa.me deep link that opens a chat with the given number
// pre-filled with text. The number keeps digits only (wa.me rejects '+').
func Link(number, text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if text == "" {
		return fmt.Sprintf("https://wa.me/%s", cleaned)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", cleaned, url.QueryEscape(text))
}

func groupThousands(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
