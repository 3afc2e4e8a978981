package enrollment

import (
	"time"

	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

const DefaultStatus = "active"

type Enrollment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	LearnerID uint          `gorm:"not null;uniqueIndex:idx_enrollment_learner_course" json:"learnerId"`
	CourseID  uint          `gorm:"not null;uniqueIndex:idx_enrollment_learner_course;index" json:"courseId"`
	Learner   user.User     `gorm:"foreignKey:LearnerID;constraint:OnDelete:CASCADE" json:"-"`
	Course    course.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Semester  *string       `gorm:"type:varchar(50)" json:"semester"`
	Status    string        `gorm:"type:varchar(50);not null;default:'active'" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
