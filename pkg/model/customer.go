package model

import "time"

// Customer is a tiffin subscriber belonging to one merchant.
type Customer struct {
	ID          string     `gorm:"column:id;primaryKey"`
	OwnerID     string     `gorm:"column:owner_id;not null;index"`
	Name        string     `gorm:"column:name"`
	Phone       string     `gorm:"column:phone"`
	Email       string     `gorm:"column:email"`
	Address     string     `gorm:"column:address"`
	MonthlyRate *float64   `gorm:"column:monthly_rate"`
	IsActive    bool       `gorm:"column:is_active;default:true"`
	TrialEndsAt *time.Time `gorm:"column:trial_ends_at"`
	StartDate   *time.Time `gorm:"column:start_date"`
	EndDate     *time.Time `gorm:"column:end_date"`
	IsDeleted   bool       `gorm:"column:is_deleted;default:false"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
