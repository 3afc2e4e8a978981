package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
	"github.com/saulo-duarte/classroom-lms/internal/validation"
)

type CourseLookup interface {
	Lookup(ctx context.Context, id uint) (*course.Course, error)
}

type EnrollmentReader interface {
	access.EnrollmentChecker
	CourseIDs(ctx context.Context, learnerID uint) ([]uint, error)
}

type QuizService interface {
	Create(ctx context.Context, actor access.Actor, dto CreateQuizDTO) (*QuizDetail, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, dto UpdateQuizDTO) (*QuizResponse, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	ListByCourse(ctx context.Context, actor access.Actor, courseID uint) ([]QuizResponse, error)
	ListForLearner(ctx context.Context, actor access.Actor) ([]DashboardItem, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*QuizDetail, error)
	Submit(ctx context.Context, actor access.Actor, id uuid.UUID, dto SubmitQuizDTO) (*SubmissionResponse, error)
	ListSubmissions(ctx context.Context, actor access.Actor, id uuid.UUID) (*SubmissionsResponse, error)
	GetSubmission(ctx context.Context, actor access.Actor, submissionID uuid.UUID) (*SubmissionResponse, error)
}

type ServiceOption func(*quizService)

// WithClock replaces the clock used for deadline checks.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *quizService) { s.now = now }
}

type quizService struct {
	repo        QuizRepository
	courses     CourseLookup
	enrollments EnrollmentReader
	policy      *access.Policy
	now         func() time.Time
}

func NewQuizService(repo QuizRepository, courses CourseLookup, enrollments EnrollmentReader, policy *access.Policy, opts ...ServiceOption) QuizService {
	s := &quizService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
		policy:      policy,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func duplicateOrders(questions []CreateQuestionDTO) error {
	seen := make(map[int]bool, len(questions))
	for i, q := range questions {
		if seen[q.Order] {
			return apperror.Validation(
				"question order must be unique within a quiz",
				apperror.FieldError{Field: fmt.Sprintf("questions[%d].order", i), Error: "duplicate order"},
			)
		}
		seen[q.Order] = true
	}
	return nil
}

func (s *quizService) Create(ctx context.Context, actor access.Actor, dto CreateQuizDTO) (*QuizDetail, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if err := duplicateOrders(dto.Questions); err != nil {
		return nil, err
	}

	c, err := s.courses.Lookup(ctx, dto.CourseID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, c.InstructorID, "not your course"); err != nil {
		log.Warnf("Instructor %d attempted to create a quiz for course %d owned by %d", actor.ID, c.ID, c.InstructorID)
		return nil, err
	}

	q := &Quiz{
		CourseID:    c.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Duration:    dto.Duration,
		DueDate:     util.ToTimePtr(dto.DueDate),
	}
	questions := make([]Question, 0, len(dto.Questions))
	for _, in := range dto.Questions {
		questions = append(questions, Question{
			Question:      in.Question,
			OptionA:       in.OptionA,
			OptionB:       in.OptionB,
			OptionC:       in.OptionC,
			OptionD:       in.OptionD,
			CorrectAnswer: in.CorrectAnswer,
			Order:         in.Order,
		})
	}

	log.Debugf("Creating quiz with %d questions", len(questions))
	if err := s.repo.CreateWithQuestions(ctx, q, questions); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("question order must be unique within a quiz")
		}
		log.WithError(err).Error("Failed to create quiz")
		return nil, apperror.Internal(err, "failed to create quiz")
	}
	q.Course = *c
	sortQuestions(q.Questions)

	log.WithField("quiz_id", q.ID.String()).Infof("Quiz created with %d questions", len(q.Questions))
	return toDetail(q, false), nil
}

func (s *quizService) load(ctx context.Context, id uuid.UUID, withQuestions bool) (*Quiz, error) {
	find := s.repo.FindByID
	if withQuestions {
		find = s.repo.FindWithQuestions
	}
	q, err := find(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load quiz")
	}
	if q == nil {
		return nil, apperror.NotFound("quiz not found")
	}
	return q, nil
}

// loadOwned fetches a quiz and checks that the actor owns its course.
func (s *quizService) loadOwned(ctx context.Context, actor access.Actor, id uuid.UUID) (*Quiz, error) {
	q, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, q.Course.InstructorID, "not your quiz"); err != nil {
		config.WithContext(ctx).Warnf("Instructor %d denied on quiz %s", actor.ID, id)
		return nil, err
	}
	return q, nil
}

func (s *quizService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, dto UpdateQuizDTO) (*QuizResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if fields := dto.conflicts(); len(fields) > 0 {
		return nil, apperror.Validation("invalid request payload", fields...)
	}

	q, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		q.Title = *dto.Title
	}
	if dto.Description != nil {
		q.Description = dto.Description
	}
	if dto.Duration != nil {
		q.Duration = dto.Duration
	}
	if dto.DueDate != nil {
		q.DueDate = util.ToTimePtr(dto.DueDate)
	}
	if dto.ClearDescription {
		q.Description = nil
	}
	if dto.ClearDuration {
		q.Duration = nil
	}
	if dto.ClearDueDate {
		q.DueDate = nil
	}

	if err := s.repo.Update(ctx, q); err != nil {
		log.WithError(err).Error("Failed to update quiz")
		return nil, apperror.Internal(err, "failed to update quiz")
	}

	log.WithField("quiz_id", q.ID.String()).Info("Quiz updated")
	resp := toResponse(q)
	return &resp, nil
}

func (s *quizService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return err
	}
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return apperror.Internal(err, "failed to delete quiz")
	}

	log.WithField("quiz_id", id.String()).Info("Quiz deleted")
	return nil
}

func quizIDs(items []Quiz) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func (s *quizService) ListByCourse(ctx context.Context, actor access.Actor, courseID uint) ([]QuizResponse, error) {
	c, err := s.courses.Lookup(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CourseContent(ctx, actor, c.ID, c.InstructorID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByCourses(ctx, []uint{c.ID})
	if err != nil {
		return nil, apperror.Internal(err, "failed to list quizzes")
	}
	ids := quizIDs(items)

	questions, err := s.repo.CountQuestions(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to count questions")
	}

	var own map[uuid.UUID]*Submission
	var totals map[uuid.UUID]int64
	if actor.Is(access.Learner) {
		own, err = s.repo.LearnerSubmissions(ctx, actor.ID, ids)
	} else {
		totals, err = s.repo.CountSubmissions(ctx, ids)
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load submissions")
	}

	out := make([]QuizResponse, 0, len(items))
	for i := range items {
		resp := toResponse(&items[i])
		n := questions[items[i].ID]
		resp.TotalQuestions = &n
		if actor.Is(access.Learner) {
			sub := own[items[i].ID]
			done := sub != nil
			resp.IsCompleted = &done
			resp.Submission = toSummary(sub)
		} else {
			t := totals[items[i].ID]
			resp.TotalSubmissions = &t
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *quizService) ListForLearner(ctx context.Context, actor access.Actor) ([]DashboardItem, error) {
	if err := access.RequireRole(actor, access.Learner); err != nil {
		return nil, err
	}

	courseIDs, err := s.enrollments.CourseIDs(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollments")
	}
	out := make([]DashboardItem, 0)
	if len(courseIDs) == 0 {
		return out, nil
	}

	items, err := s.repo.ListByCourses(ctx, courseIDs)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list quizzes")
	}
	ids := quizIDs(items)
	questions, err := s.repo.CountQuestions(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to count questions")
	}
	own, err := s.repo.LearnerSubmissions(ctx, actor.ID, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load submissions")
	}

	for i := range items {
		q := &items[i]
		row := DashboardItem{
			ID:            q.ID,
			Title:         q.Title,
			CourseID:      q.CourseID,
			CourseName:    q.Course.Title,
			QuestionCount: questions[q.ID],
			Deadline:      q.DueDate,
		}
		if sub := own[q.ID]; sub != nil {
			score := sub.Score
			row.IsCompleted = true
			row.Score = &score
		}
		out = append(out, row)
	}
	return out, nil
}

// Get returns the quiz with its questions. Learners must be enrolled, the
// deadline must not have passed, and the answer key is withheld.
func (s *quizService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*QuizDetail, error) {
	if err := access.RequireRole(actor, access.Instructor, access.Learner); err != nil {
		return nil, err
	}

	q, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if actor.Is(access.Instructor) {
		if err := access.RequireOwner(actor, q.Course.InstructorID, "not your quiz"); err != nil {
			return nil, err
		}
		return toDetail(q, true), nil
	}

	if err := s.policy.RequireEnrollment(ctx, actor, q.CourseID); err != nil {
		return nil, err
	}
	if q.PastDue(s.now()) {
		return nil, apperror.Forbidden("quiz is past its deadline")
	}

	sub, err := s.repo.FindLearnerSubmission(ctx, q.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load submission")
	}
	d := toDetail(q, false)
	done := sub != nil
	d.IsCompleted = &done
	d.Submission = toSummary(sub)
	return d, nil
}

// Submit grades and records the learner's single attempt. Nothing is written
// unless every check passes.
func (s *quizService) Submit(ctx context.Context, actor access.Actor, id uuid.UUID, dto SubmitQuizDTO) (*SubmissionResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Learner); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	q, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if q.PastDue(now) {
		log.Warnf("Learner %d submitted quiz %s after its deadline", actor.ID, q.ID)
		return nil, apperror.Forbidden("quiz is past its deadline")
	}

	if err := s.policy.RequireEnrollment(ctx, actor, q.CourseID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindLearnerSubmission(ctx, q.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check submission")
	}
	if existing != nil {
		return nil, apperror.Conflict("quiz already submitted")
	}

	res, err := Score(q.Questions, dto.Answers)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		QuizID:         q.ID,
		LearnerID:      actor.ID,
		Score:          res.Score,
		CorrectCount:   res.CorrectCount,
		TotalQuestions: res.TotalQuestions,
		SubmittedAt:    now.UTC(),
	}
	answers := make([]Answer, 0, len(res.Answers))
	for _, ga := range res.Answers {
		answers = append(answers, Answer{
			QuestionID:     ga.Question.ID,
			SelectedAnswer: ga.Selected,
			IsCorrect:      ga.IsCorrect,
		})
	}

	if err := s.repo.CreateSubmission(ctx, sub, answers); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("quiz already submitted")
		}
		log.WithError(err).Error("Failed to create quiz submission")
		return nil, apperror.Internal(err, "failed to submit quiz")
	}
	for i := range sub.Answers {
		sub.Answers[i].Question = res.Answers[i].Question
	}

	log.WithField("quiz_id", q.ID.String()).Infof("Quiz submitted with score %.2f", sub.Score)
	resp := toSubmissionResponse(sub, q)
	return &resp, nil
}

func (s *quizService) ListSubmissions(ctx context.Context, actor access.Actor, id uuid.UUID) (*SubmissionsResponse, error) {
	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}

	q, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	subs, err := s.repo.ListSubmissions(ctx, q.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list submissions")
	}
	out := &SubmissionsResponse{
		Quiz:             toRef(q),
		TotalSubmissions: len(subs),
		Submissions:      make([]SubmissionResponse, 0, len(subs)),
	}
	for i := range subs {
		out.Submissions = append(out.Submissions, toSubmissionResponse(&subs[i], q))
	}
	return out, nil
}

func (s *quizService) GetSubmission(ctx context.Context, actor access.Actor, submissionID uuid.UUID) (*SubmissionResponse, error) {
	if err := access.RequireRole(actor, access.Instructor, access.Learner); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindSubmission(ctx, submissionID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load submission")
	}
	if sub == nil {
		return nil, apperror.NotFound("submission not found")
	}
	q, err := s.load(ctx, sub.QuizID, false)
	if err != nil {
		return nil, err
	}

	if actor.Is(access.Learner) {
		if sub.LearnerID != actor.ID {
			return nil, apperror.Forbidden("not your submission")
		}
	} else if err := access.RequireOwner(actor, q.Course.InstructorID, "not your quiz"); err != nil {
		return nil, err
	}

	resp := toSubmissionResponse(sub, q)
	return &resp, nil
}
