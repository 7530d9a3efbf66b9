// Package domain holds the relay worker's event types and error taxonomy.
package domain

// Notification is a notification row loaded for relaying.
type Notification struct {
	NotificationID string
	Recipient      string
	Content        string
	Type           string
	Link           string
}

// EventMessage represents a notification-created event from RabbitMQ
type EventMessage struct {
	NotificationID string `json:"notification_id"`
	Recipient      string `json:"recipient"`
	Type           string `json:"type"`
	DeliveryTag    uint64 `json:"-"`
}
