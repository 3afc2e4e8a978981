package course

import (
	"time"

	"github.com/saulo-duarte/classroom-lms/internal/user"
)

type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Brief        *string   `gorm:"type:text" json:"brief"`
	Code         *string   `gorm:"type:varchar(50)" json:"code"`
	ImageURL     *string   `gorm:"column:image_url" json:"imageUrl"`
	InstructorID uint      `gorm:"not null;index" json:"instructorId"`
	Instructor   user.User `gorm:"foreignKey:InstructorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Modules      []Module  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"courseId"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	FileURL     string    `gorm:"column:file_url;not null" json:"fileUrl"`
	FileType    FileType  `gorm:"type:varchar(20);not null" json:"fileType"`
	CreatedAt   time.Time `json:"createdAt"`
}
