package models

type Category struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Description *string `json:"description" gorm:"type:text"`
	ImageURL    *string `json:"image_url" gorm:"size:500"`
	// Denormalized marketing counter maintained by an external job; this
	// service reads it but never recomputes it.
	EducatorCount int `json:"educator_count" gorm:"default:0"`
}

func (Category) TableName() string {
	return "categories"
}

type Subject struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	CategoryID  int64   `json:"category_id" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"not null;size:100"`
	Description *string `json:"description" gorm:"type:text"`

	// Relations
	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}

func (Subject) TableName() string {
	return "subjects"
}
