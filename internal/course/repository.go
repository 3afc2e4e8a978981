package course

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	FindByID(ctx context.Context, id uint) (*Course, error)
	List(ctx context.Context) ([]Course, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]Course, error)
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id uint) error

	CreateModule(ctx context.Context, m *Module) error
	ListModules(ctx context.Context, courseID uint) ([]Module, error)

	Counts(ctx context.Context, courseIDs []uint) (map[uint]Counts, error)
	AssignmentSummaries(ctx context.Context, courseIDs []uint) (map[uint][]AssignmentSummary, error)
	QuizSummaries(ctx context.Context, courseIDs []uint) (map[uint][]QuizSummary, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, c *Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// FindByID returns nil without error when the course does not exist.
func (r *courseRepository) FindByID(ctx context.Context, id uint) (*Course, error) {
	var c Course
	if err := r.db.WithContext(ctx).Preload("Instructor").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := r.db.WithContext(ctx).
		Preload("Instructor").
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListByInstructor(ctx context.Context, instructorID uint) ([]Course, error) {
	var courses []Course
	if err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, c *Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Course{}, id).Error
}

func (r *courseRepository) CreateModule(ctx context.Context, m *Module) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *courseRepository) ListModules(ctx context.Context, courseID uint) ([]Module, error) {
	var modules []Module
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

type countRow struct {
	CourseID uint
	N        int64
}

func (r *courseRepository) countBy(ctx context.Context, table string, courseIDs []uint) (map[uint]int64, error) {
	var rows []countRow
	if err := r.db.WithContext(ctx).
		Table(table).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.CourseID] = row.N
	}
	return out, nil
}

func (r *courseRepository) Counts(ctx context.Context, courseIDs []uint) (map[uint]Counts, error) {
	out := make(map[uint]Counts, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}

	enrollments, err := r.countBy(ctx, "enrollments", courseIDs)
	if err != nil {
		return nil, err
	}
	assignments, err := r.countBy(ctx, "assignments", courseIDs)
	if err != nil {
		return nil, err
	}
	quizzes, err := r.countBy(ctx, "quizzes", courseIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range courseIDs {
		out[id] = Counts{
			Enrollments: enrollments[id],
			Assignments: assignments[id],
			Quizzes:     quizzes[id],
		}
	}
	return out, nil
}

func (r *courseRepository) AssignmentSummaries(ctx context.Context, courseIDs []uint) (map[uint][]AssignmentSummary, error) {
	out := make(map[uint][]AssignmentSummary)
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []AssignmentSummary
	if err := r.db.WithContext(ctx).
		Table("assignments").
		Select("id, course_id, title, code, brief, due_date").
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row)
	}
	return out, nil
}

func (r *courseRepository) QuizSummaries(ctx context.Context, courseIDs []uint) (map[uint][]QuizSummary, error) {
	out := make(map[uint][]QuizSummary)
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []QuizSummary
	if err := r.db.WithContext(ctx).
		Table("quizzes").
		Select("id, course_id, title, description, duration").
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row)
	}
	return out, nil
}
