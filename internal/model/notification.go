package model

// Notification is an inbound push-notification payload as delivered by the
// webhook. Field names follow the wire format of the forwarding app.
type Notification struct {
	Title     string `json:"titulo"`
	Message   string `json:"mensagem"`
	SourceApp string `json:"app"`
	SentAt    string `json:"data,omitempty"`
}
