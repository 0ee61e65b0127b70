package models

import "time"

// Testimonial is a site-wide quote shown on marketing surfaces. Hiding a
// testimonial flips IsVisible instead of deleting the row.
type Testimonial struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserRole  string    `json:"user_role" gorm:"not null"`
	IsVisible bool      `json:"is_visible" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}
