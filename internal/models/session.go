package models

import "time"

type SessionStatus string

const (
	SessionRequested SessionStatus = "requested"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Session is a single bookable teaching engagement between one educator and
// one student. Status and payment status only ever move through the booking
// lifecycle engine; no caller mutates the fields directly.
type Session struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EducatorID int64     `json:"educator_id" gorm:"not null;index"`
	StudentID  int64     `json:"student_id" gorm:"not null;index"`
	StartTime  time.Time `json:"start_time" gorm:"not null"`
	EndTime    time.Time `json:"end_time" gorm:"not null"`

	Status        SessionStatus `json:"status" gorm:"not null;size:20;index"`
	TotalPrice    float64       `json:"total_price" gorm:"not null"`
	Notes         *string       `json:"notes" gorm:"type:text"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"not null;size:20"`
	CreatedAt     time.Time     `json:"created_at"`

	// Relations
	Educator EducatorProfile `json:"-" gorm:"foreignKey:EducatorID"`
	Student  User            `json:"-" gorm:"foreignKey:StudentID"`
}

func (Session) TableName() string {
	return "sessions"
}

// Terminal reports whether the session status admits no further status change.
// Payment status may still move while the status is completed.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}
