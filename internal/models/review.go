package models

import "time"

// Review is written once by a student about an educator and never mutated.
// When SessionID is set, the referenced session must belong to the same
// (student, educator) pair and must already be completed.
type Review struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EducatorID int64     `json:"educator_id" gorm:"not null;index"`
	StudentID  int64     `json:"student_id" gorm:"not null;index"`
	SessionID  *int64    `json:"session_id"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    *string   `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`

	// Relations
	Educator EducatorProfile `json:"-" gorm:"foreignKey:EducatorID"`
	Student  User            `json:"-" gorm:"foreignKey:StudentID"`
}

func (Review) TableName() string {
	return "reviews"
}
