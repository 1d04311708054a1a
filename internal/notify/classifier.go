// Package notify decides whether an inbound push notification represents a
// completed purchase and extracts the structured fields from its free text.
package notify

import (
	"strings"

	"github.com/rfcarvalho/gastos/internal/model"
)

// Rejection reasons reported to the webhook caller. Rejections are expected,
// frequent outcomes; most push notifications are not completed purchases.
const (
	ReasonNotPurchase = "not a purchase title"
	ReasonDeclined    = "declined purchase"
)

// Decision is the outcome of classifying one notification.
type Decision struct {
	Reason   string
	Accepted bool
}

// Classify applies the purchase-title rules to a notification. The declined
// check runs only on titles that already passed the purchase check, so a
// title holding both tokens is reported as declined.
func Classify(n model.Notification) Decision {
	if !strings.Contains(n.Title, "Compra") {
		return Decision{Accepted: false, Reason: ReasonNotPurchase}
	}
	if strings.Contains(n.Title, "Recusada") {
		return Decision{Accepted: false, Reason: ReasonDeclined}
	}
	return Decision{Accepted: true}
}
