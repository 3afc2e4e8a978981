package quiz

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository interface {
	CreateWithQuestions(ctx context.Context, q *Quiz, questions []Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	FindWithQuestions(ctx context.Context, id uuid.UUID) (*Quiz, error)
	Update(ctx context.Context, q *Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByCourses(ctx context.Context, courseIDs []uint) ([]Quiz, error)
	CountQuestions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountSubmissions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	CreateSubmission(ctx context.Context, s *Submission, answers []Answer) error
	FindSubmission(ctx context.Context, id uuid.UUID) (*Submission, error)
	FindLearnerSubmission(ctx context.Context, quizID uuid.UUID, learnerID uint) (*Submission, error)
	LearnerSubmissions(ctx context.Context, learnerID uint, quizIDs []uuid.UUID) (map[uuid.UUID]*Submission, error)
	ListSubmissions(ctx context.Context, quizID uuid.UUID) ([]Submission, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// CreateWithQuestions inserts the quiz and all of its questions atomically.
func (r *quizRepository) CreateWithQuestions(ctx context.Context, q *Quiz, questions []Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(q).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = q.ID
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		q.Questions = questions
		return nil
	})
}

func (r *quizRepository) FindByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := r.db.WithContext(ctx).Preload("Course").First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// FindWithQuestions loads the quiz with its course and questions in order.
func (r *quizRepository) FindWithQuestions(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) Update(ctx context.Context, q *Quiz) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(q).Error
}

func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Quiz{}, "id = ?", id).Error
}

func (r *quizRepository) ListByCourses(ctx context.Context, courseIDs []uint) ([]Quiz, error) {
	var out []Quiz
	if len(courseIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

type countRow struct {
	QuizID uuid.UUID
	Total  int64
}

func (r *quizRepository) countBy(ctx context.Context, model interface{}, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(quizIDs))
	if len(quizIDs) == 0 {
		return out, nil
	}
	var rows []countRow
	if err := r.db.WithContext(ctx).
		Model(model).
		Select("quiz_id, COUNT(*) AS total").
		Where("quiz_id IN ?", quizIDs).
		Group("quiz_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.QuizID] = row.Total
	}
	return out, nil
}

func (r *quizRepository) CountQuestions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countBy(ctx, &Question{}, quizIDs)
}

func (r *quizRepository) CountSubmissions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countBy(ctx, &Submission{}, quizIDs)
}

// CreateSubmission inserts the submission and its graded answers atomically.
// A second submission for the same quiz and learner fails with
// gorm.ErrDuplicatedKey.
func (r *quizRepository) CreateSubmission(ctx context.Context, s *Submission, answers []Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].SubmissionID = s.ID
		}
		if err := tx.Omit(clause.Associations).Create(&answers).Error; err != nil {
			return err
		}
		s.Answers = answers
		return nil
	})
}

// FindSubmission loads a submission with its learner and answers, the
// answers ordered like the quiz questions.
func (r *quizRepository) FindSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var s Submission
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Answers.Question").
		First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(s.Answers, func(i, j int) bool {
		return s.Answers[i].Question.Order < s.Answers[j].Question.Order
	})
	return &s, nil
}

func (r *quizRepository) FindLearnerSubmission(ctx context.Context, quizID uuid.UUID, learnerID uint) (*Submission, error) {
	var s Submission
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND learner_id = ?", quizID, learnerID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *quizRepository) LearnerSubmissions(ctx context.Context, learnerID uint, quizIDs []uuid.UUID) (map[uuid.UUID]*Submission, error) {
	out := make(map[uuid.UUID]*Submission, len(quizIDs))
	if len(quizIDs) == 0 {
		return out, nil
	}
	var subs []Submission
	if err := r.db.WithContext(ctx).
		Where("learner_id = ? AND quiz_id IN ?", learnerID, quizIDs).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	for i := range subs {
		out[subs[i].QuizID] = &subs[i]
	}
	return out, nil
}

func (r *quizRepository) ListSubmissions(ctx context.Context, quizID uuid.UUID) ([]Submission, error) {
	var out []Submission
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Where("quiz_id = ?", quizID).
		Order("submitted_at DESC").
		Find(&out).Error
	return out, err
}

func sortQuestions(qs []Question) {
	sort.Slice(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
}
