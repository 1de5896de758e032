package model

import "time"

// WebhookEvent records a processed payment-provider event. The unique
// constraint on EventID is what makes webhook handling idempotent: a
// replayed event fails the insert and is acknowledged without reprocessing.
type WebhookEvent struct {
	ID         string    `gorm:"column:id;primaryKey"`
	EventID    string    `gorm:"column:event_id;uniqueIndex;not null"`
	EventType  string    `gorm:"column:event_type"`
	PaymentID  string    `gorm:"column:payment_id;index"`
	ReceivedAt time.Time `gorm:"column:received_at;autoCreateTime"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
