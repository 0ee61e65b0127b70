package models

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleEducator UserRole = "educator"
)

// Valid reports whether the role is one of the two marketplace roles.
// Roles are immutable after signup; role changes are handled outside this service.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleEducator
}

type User struct {
	ID        int64    `json:"id" gorm:"primaryKey"`
	Username  string   `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName string   `json:"first_name" gorm:"not null;size:100"`
	LastName  string   `json:"last_name" gorm:"not null;size:100"`
	Bio       *string  `json:"bio" gorm:"type:text"`
	// Profile image is a reference (URL or object key); file storage is external.
	ProfileImage *string  `json:"profile_image" gorm:"size:500"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`
	IsVerified   bool     `json:"is_verified" gorm:"default:false"`
}

func (User) TableName() string {
	return "users"
}
