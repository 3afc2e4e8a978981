package enrollment

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	FindByID(ctx context.Context, id uint) (*Enrollment, error)
	FindByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*Enrollment, error)
	Update(ctx context.Context, e *Enrollment) error
	Delete(ctx context.Context, id uint) error
	ListByLearner(ctx context.Context, learnerID uint) ([]Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]Enrollment, error)
	IsEnrolled(ctx context.Context, learnerID, courseID uint) (bool, error)
	CourseIDs(ctx context.Context, learnerID uint) ([]uint, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uint) (*Enrollment, error) {
	var e Enrollment
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) FindByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*Enrollment, error) {
	var e Enrollment
	if err := r.db.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, e *Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Enrollment{}, id).Error
}

func (r *enrollmentRepository) ListByLearner(ctx context.Context, learnerID uint) ([]Enrollment, error) {
	var out []Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course.Instructor").
		Where("learner_id = ?", learnerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]Enrollment, error) {
	var out []Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Learner").
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepository) IsEnrolled(ctx context.Context, learnerID, courseID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Count(&n).Error
	return n > 0, err
}

func (r *enrollmentRepository) CourseIDs(ctx context.Context, learnerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("learner_id = ?", learnerID).
		Pluck("course_id", &ids).Error
	return ids, err
}
