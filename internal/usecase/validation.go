package usecase

import (
	"strings"
	"time"
)

// ValidateCardExpiry checks that the card expiry date lies in the future. The
// card stays valid through the last day of its expiry month.
func ValidateCardExpiry(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year < now.Year() {
		return false
	}
	if year == now.Year() && time.Month(month) < now.Month() {
		return false
	}
	return true
}

// ValidateCustomer checks the minimal buyer identity required on every order.
func ValidateCustomer(name, email string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
