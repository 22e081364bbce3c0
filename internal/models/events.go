package models

import "time"

// Change event types emitted after every committed store mutation.
const (
	EventItemAdded                = "ItemAdded"
	EventItemUpdated              = "ItemUpdated"
	EventItemDeleted              = "ItemDeleted"
	EventMenuReplaced             = "MenuReplaced"
	EventStateReset               = "StateReset"
	EventRecommendationApplied    = "RecommendationApplied"
	EventRecommendationsRefreshed = "RecommendationsRefreshed"
	EventNotificationAdded        = "NotificationAdded"
	EventNotificationsRead        = "NotificationsRead"
)

// ChangeEvent summarizes a committed mutation for downstream consumers.
type ChangeEvent struct {
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	Subject      string    `json:"subject,omitempty"`
	ItemCount    int       `json:"itemCount"`
	TotalRevenue float64   `json:"totalRevenue"`
	NetProfit    float64   `json:"netProfit"`
}
