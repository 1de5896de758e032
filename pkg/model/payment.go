package model

import "time"

// Payment is one billing line for a customer. Ownership is keyed by the
// merchant's email address; billing records predate internal user ids.
type Payment struct {
	ID            string     `gorm:"column:id;primaryKey"`
	OwnerEmail    string     `gorm:"column:owner_email;not null;index"`
	CustomerID    string     `gorm:"column:customer_id;index"`
	Amount        *float64   `gorm:"column:amount"`
	Status        string     `gorm:"column:status;default:pending"`
	DueDate       *time.Time `gorm:"column:due_date"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	PaymentLink   string     `gorm:"column:payment_link"`
	StripeRef     string     `gorm:"column:stripe_ref"`
	ReminderSent  bool       `gorm:"column:reminder_sent;default:false"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

// Payment status values. Transitions are straight-line: pending -> paid,
// pending -> overdue -> paid.
const (
	PaymentStatusPending = "pending"
	PaymentStatusOverdue = "overdue"
	PaymentStatusPaid    = "paid"
)
