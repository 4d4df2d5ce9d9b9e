package notify

import (
	"fmt"
	"net/url"
	"strings"

	"bikeparts/internal/domain"
)

// DefaultCountryCode is prefixed to bare 10-digit Indian mobile numbers.
const DefaultCountryCode = "91"

// WhatsAppLinker builds outbound messaging deep links for operators to notify
// customers about order status changes. Opening the link is delegated to the
// operator's environment.
type WhatsAppLinker struct {
	countryCode string
}

// NewWhatsAppLinker creates a linker with the given country code, falling back
// to DefaultCountryCode when empty.
func NewWhatsAppLinker(countryCode string) *WhatsAppLinker {
	countryCode = strings.TrimPrefix(countryCode, "+")
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return &WhatsAppLinker{countryCode: countryCode}
}

// NormalizePhone strips formatting characters and prefixes the country code
// when the stored number is exactly 10 bare digits. Numbers that already
// carry a country code are kept as stored.
func (l *WhatsAppLinker) NormalizePhone(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) == 10 && isDigits(cleaned) {
		return l.countryCode + cleaned
	}
	return cleaned
}

// StatusMessage formats the operator-triggered customer notification text
func StatusMessage(order *domain.Order) string {
	return fmt.Sprintf("Hello! Your BikeParts India order %s is now %s. Thank you for shopping with us.",
		order.ID, order.Status)
}

// Link builds a wa.me deep link for the given phone and message
func (l *WhatsAppLinker) Link(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", l.NormalizePhone(phone), url.QueryEscape(message))
}

// StatusLink builds the deep link notifying the customer of the order's
// current status.
func (l *WhatsAppLinker) StatusLink(order *domain.Order) string {
	return l.Link(order.Shipping.Phone, StatusMessage(order))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
