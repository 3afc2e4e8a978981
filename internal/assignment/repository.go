package assignment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCourses(ctx context.Context, courseIDs []uint) ([]Assignment, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]Assignment, error)
	CountSubmissions(ctx context.Context, assignmentIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	CreateSubmission(ctx context.Context, s *Submission) error
	FindSubmission(ctx context.Context, id uuid.UUID) (*Submission, error)
	FindLearnerSubmission(ctx context.Context, assignmentID uuid.UUID, learnerID uint) (*Submission, error)
	LearnerSubmissions(ctx context.Context, learnerID uint, assignmentIDs []uuid.UUID) (map[uuid.UUID]*Submission, error)
	ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]Submission, error)
	ReviewSubmission(ctx context.Context, s *Submission) (bool, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

// FindByID loads the assignment with its course, or nil when absent.
func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	var a Assignment
	if err := r.db.WithContext(ctx).Preload("Course").First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Assignment{}, "id = ?", id).Error
}

func (r *assignmentRepository) ListByCourses(ctx context.Context, courseIDs []uint) ([]Assignment, error) {
	var out []Assignment
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepository) ListByInstructor(ctx context.Context, instructorID uint) ([]Assignment, error) {
	var out []Assignment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Order("assignments.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type submissionCount struct {
	AssignmentID uuid.UUID
	N            int64
}

func (r *assignmentRepository) CountSubmissions(ctx context.Context, assignmentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	var rows []submissionCount
	if err := r.db.WithContext(ctx).
		Model(&Submission{}).
		Select("assignment_id, COUNT(*) AS n").
		Where("assignment_id IN ?", assignmentIDs).
		Group("assignment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AssignmentID] = row.N
	}
	return out, nil
}

func (r *assignmentRepository) CreateSubmission(ctx context.Context, s *Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *assignmentRepository) FindSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var s Submission
	if err := r.db.WithContext(ctx).Preload("Learner").First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *assignmentRepository) FindLearnerSubmission(ctx context.Context, assignmentID uuid.UUID, learnerID uint) (*Submission, error) {
	var s Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND learner_id = ?", assignmentID, learnerID).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *assignmentRepository) LearnerSubmissions(ctx context.Context, learnerID uint, assignmentIDs []uuid.UUID) (map[uuid.UUID]*Submission, error) {
	out := make(map[uuid.UUID]*Submission, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	var rows []Submission
	if err := r.db.WithContext(ctx).
		Where("learner_id = ? AND assignment_id IN ?", learnerID, assignmentIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].AssignmentID] = &rows[i]
	}
	return out, nil
}

func (r *assignmentRepository) ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]Submission, error) {
	var out []Submission
	if err := r.db.WithContext(ctx).
		Preload("Learner").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewSubmission writes the review fields only while the stored row is
// still SUBMITTED. It reports false when another review got there first.
func (r *assignmentRepository) ReviewSubmission(ctx context.Context, s *Submission) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Submission{}).
		Where("id = ? AND status = ?", s.ID, StatusSubmitted).
		Updates(map[string]interface{}{
			"status":    s.Status,
			"grade":     s.Grade,
			"feedback":  s.Feedback,
			"graded_at": s.GradedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
