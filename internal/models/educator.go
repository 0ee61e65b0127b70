package models

import (
	"gorm.io/datatypes"
)

// Availability maps a weekday name to an ordered list of time-of-day slots,
// e.g. "monday" -> ["9:00", "10:00"]. The slots are advisory data for the
// booking UI; no overlap checking happens on this side.
type Availability map[string][]string

type EducatorProfile struct {
	ID         int64   `json:"id" gorm:"primaryKey"`
	UserID     int64   `json:"user_id" gorm:"uniqueIndex;not null"`
	Title      string  `json:"title" gorm:"not null;size:200"`
	HourlyRate float64 `json:"hourly_rate" gorm:"not null"`
	Experience *string `json:"experience" gorm:"type:text"`
	Education  *string `json:"education" gorm:"type:text"`

	Specialties  datatypes.JSONSlice[string]      `json:"specialties" gorm:"type:jsonb"`
	Availability datatypes.JSONType[Availability] `json:"availability" gorm:"type:jsonb"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (EducatorProfile) TableName() string {
	return "educator_profiles"
}

// EducatorSubject links an educator profile to a subject it teaches.
// The (educator_id, subject_id) pair is a set, never a multiset.
type EducatorSubject struct {
	ID         int64 `json:"id" gorm:"primaryKey"`
	EducatorID int64 `json:"educator_id" gorm:"not null;uniqueIndex:idx_educator_subject"`
	SubjectID  int64 `json:"subject_id" gorm:"not null;uniqueIndex:idx_educator_subject"`

	// Relations
	Educator EducatorProfile `json:"-" gorm:"foreignKey:EducatorID"`
	Subject  Subject         `json:"-" gorm:"foreignKey:SubjectID"`
}

func (EducatorSubject) TableName() string {
	return "educator_subjects"
}
