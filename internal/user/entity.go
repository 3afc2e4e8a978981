package user

import (
	"time"

	"github.com/saulo-duarte/classroom-lms/internal/access"
)

type User struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Name            string      `gorm:"type:varchar(255);not null" json:"name"`
	Email           string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string      `gorm:"column:password_hash;not null" json:"-"`
	Role            access.Role `gorm:"type:varchar(20);not null;index" json:"role"`
	Phone           *string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	ProfileImageURL *string     `gorm:"column:profile_image_url" json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
