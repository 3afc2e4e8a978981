package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
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

type AssignmentService interface {
	Create(ctx context.Context, actor access.Actor, dto CreateAssignmentDTO) (*AssignmentResponse, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, dto UpdateAssignmentDTO) (*AssignmentResponse, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	List(ctx context.Context, actor access.Actor) ([]AssignmentResponse, error)
	ListByCourse(ctx context.Context, actor access.Actor, courseID uint) ([]AssignmentResponse, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssignmentResponse, error)
	Submit(ctx context.Context, actor access.Actor, id uuid.UUID, file *storage.Upload) (*SubmissionResponse, error)
	ListSubmissions(ctx context.Context, actor access.Actor, id uuid.UUID) (*SubmissionsResponse, error)
	GetSubmission(ctx context.Context, actor access.Actor, submissionID uuid.UUID) (*SubmissionResponse, error)
	Grade(ctx context.Context, actor access.Actor, submissionID uuid.UUID, dto GradeDTO) (*SubmissionResponse, error)
	Reject(ctx context.Context, actor access.Actor, submissionID uuid.UUID, dto RejectDTO) (*SubmissionResponse, error)
}

// view renders assignments for one role.
type view func(ctx context.Context, actor access.Actor, items []Assignment) ([]AssignmentResponse, error)

type assignmentService struct {
	repo        AssignmentRepository
	courses     CourseLookup
	enrollments EnrollmentReader
	policy      *access.Policy
	store       storage.Store
	now         func() time.Time
	views       map[access.Role]view
}

func NewAssignmentService(repo AssignmentRepository, courses CourseLookup, enrollments EnrollmentReader, policy *access.Policy, store storage.Store) AssignmentService {
	s := &assignmentService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
		policy:      policy,
		store:       store,
		now:         time.Now,
	}
	s.views = map[access.Role]view{
		access.Instructor: s.instructorView,
		access.Learner:    s.learnerView,
	}
	return s
}

func (s *assignmentService) Create(ctx context.Context, actor access.Actor, dto CreateAssignmentDTO) (*AssignmentResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	c, err := s.courses.Lookup(ctx, dto.CourseID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, c.InstructorID, "not your course"); err != nil {
		return nil, err
	}

	a := &Assignment{
		CourseID:    c.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Code:        dto.Code,
		Brief:       dto.Brief,
		DueDate:     util.ToTimePtr(dto.DueDate),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		log.WithError(err).Error("Failed to create assignment")
		return nil, apperror.Internal(err, "failed to create assignment")
	}
	a.Course = *c

	log.WithField("assignment_id", a.ID.String()).Info("Assignment created")
	resp := toResponse(a)
	return &resp, nil
}

// loadOwned fetches an assignment and checks that the actor owns its course.
func (s *assignmentService) loadOwned(ctx context.Context, actor access.Actor, id uuid.UUID) (*Assignment, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, a.Course.InstructorID, "not your assignment"); err != nil {
		config.WithContext(ctx).Warnf("Instructor %d denied on assignment %s", actor.ID, id)
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) load(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load assignment")
	}
	if a == nil {
		return nil, apperror.NotFound("assignment not found")
	}
	return a, nil
}

func (s *assignmentService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, dto UpdateAssignmentDTO) (*AssignmentResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	a, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		a.Title = *dto.Title
	}
	if dto.Description != nil {
		a.Description = *dto.Description
	}
	if dto.Code != nil {
		a.Code = dto.Code
	}
	if dto.Brief != nil {
		a.Brief = dto.Brief
	}
	if dto.DueDate != nil {
		a.DueDate = util.ToTimePtr(dto.DueDate)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		log.WithError(err).Error("Failed to update assignment")
		return nil, apperror.Internal(err, "failed to update assignment")
	}

	resp := toResponse(a)
	return &resp, nil
}

func (s *assignmentService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return err
	}
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete assignment")
		return apperror.Internal(err, "failed to delete assignment")
	}

	log.WithField("assignment_id", id.String()).Info("Assignment deleted")
	return nil
}

func (s *assignmentService) render(ctx context.Context, actor access.Actor, items []Assignment) ([]AssignmentResponse, error) {
	v, ok := s.views[actor.Role]
	if !ok {
		return nil, apperror.Unauthorized("unknown role %q", actor.Role)
	}
	return v(ctx, actor, items)
}

func (s *assignmentService) instructorView(ctx context.Context, _ access.Actor, items []Assignment) ([]AssignmentResponse, error) {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	counts, err := s.repo.CountSubmissions(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to count submissions")
	}

	out := make([]AssignmentResponse, 0, len(items))
	for i := range items {
		resp := toResponse(&items[i])
		n := counts[items[i].ID]
		resp.TotalSubmissions = &n
		out = append(out, resp)
	}
	return out, nil
}

func (s *assignmentService) learnerView(ctx context.Context, actor access.Actor, items []Assignment) ([]AssignmentResponse, error) {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	own, err := s.repo.LearnerSubmissions(ctx, actor.ID, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load submissions")
	}

	out := make([]AssignmentResponse, 0, len(items))
	for i := range items {
		out = append(out, withLearnerSubmission(toResponse(&items[i]), own[items[i].ID]))
	}
	return out, nil
}

func (s *assignmentService) List(ctx context.Context, actor access.Actor) ([]AssignmentResponse, error) {
	var items []Assignment
	var err error

	switch actor.Role {
	case access.Instructor:
		items, err = s.repo.ListByInstructor(ctx, actor.ID)
	case access.Learner:
		var courseIDs []uint
		if courseIDs, err = s.enrollments.CourseIDs(ctx, actor.ID); err == nil {
			items, err = s.repo.ListByCourses(ctx, courseIDs)
		}
	default:
		return nil, apperror.Unauthorized("unknown role %q", actor.Role)
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to list assignments")
	}
	return s.render(ctx, actor, items)
}

func (s *assignmentService) ListByCourse(ctx context.Context, actor access.Actor, courseID uint) ([]AssignmentResponse, error) {
	c, err := s.courses.Lookup(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CourseContent(ctx, actor, c.ID, c.InstructorID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByCourses(ctx, []uint{c.ID})
	if err != nil {
		return nil, apperror.Internal(err, "failed to list assignments")
	}
	return s.render(ctx, actor, items)
}

func (s *assignmentService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssignmentResponse, error) {
	if err := access.RequireRole(actor, access.Instructor, access.Learner); err != nil {
		return nil, err
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CourseContent(ctx, actor, a.CourseID, a.Course.InstructorID); err != nil {
		return nil, err
	}

	if actor.Is(access.Learner) {
		own, err := s.repo.FindLearnerSubmission(ctx, a.ID, actor.ID)
		if err != nil {
			return nil, apperror.Internal(err, "failed to load submission")
		}
		resp := withLearnerSubmission(toResponse(a), own)
		return &resp, nil
	}

	subs, err := s.repo.ListSubmissions(ctx, a.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list submissions")
	}
	resp := toResponse(a)
	total := int64(len(subs))
	resp.TotalSubmissions = &total
	resp.Submissions = make([]SubmissionResponse, 0, len(subs))
	for i := range subs {
		resp.Submissions = append(resp.Submissions, toSubmissionResponse(&subs[i]))
	}
	return &resp, nil
}

// Submit records the learner's single submission. The file is stored only
// after every check has passed.
func (s *assignmentService) Submit(ctx context.Context, actor access.Actor, id uuid.UUID, file *storage.Upload) (*SubmissionResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Learner); err != nil {
		return nil, err
	}
	if file != nil {
		defer file.Body.Close()
	}
	if file == nil {
		return nil, apperror.Validation("file is required", apperror.FieldError{Field: "file", Error: "this field is required"})
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireEnrollment(ctx, actor, a.CourseID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindLearnerSubmission(ctx, a.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check submission")
	}
	if existing != nil {
		return nil, apperror.Conflict("assignment already submitted")
	}

	obj, err := s.store.Save(ctx, storage.CategorySubmissions, file.Filename, file.Body)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		AssignmentID: a.ID,
		LearnerID:    actor.ID,
		FileURL:      obj.URL,
		Status:       StatusSubmitted,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		storage.Discard(ctx, s.store, obj)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("assignment already submitted")
		}
		log.WithError(err).Error("Failed to create submission")
		return nil, apperror.Internal(err, "failed to submit assignment")
	}

	log.WithField("assignment_id", a.ID.String()).Info("Assignment submitted")
	resp := toSubmissionResponse(sub)
	return &resp, nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, actor access.Actor, id uuid.UUID) (*SubmissionsResponse, error) {
	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}

	a, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	subs, err := s.repo.ListSubmissions(ctx, a.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list submissions")
	}
	out := &SubmissionsResponse{
		Assignment:       toResponse(a),
		TotalSubmissions: len(subs),
		Submissions:      make([]SubmissionResponse, 0, len(subs)),
	}
	for i := range subs {
		out.Submissions = append(out.Submissions, toSubmissionResponse(&subs[i]))
	}
	return out, nil
}

// loadSubmission returns a submission and its assignment.
func (s *assignmentService) loadSubmission(ctx context.Context, id uuid.UUID) (*Submission, *Assignment, error) {
	sub, err := s.repo.FindSubmission(ctx, id)
	if err != nil {
		return nil, nil, apperror.Internal(err, "failed to load submission")
	}
	if sub == nil {
		return nil, nil, apperror.NotFound("submission not found")
	}
	a, err := s.load(ctx, sub.AssignmentID)
	if err != nil {
		return nil, nil, err
	}
	return sub, a, nil
}

func (s *assignmentService) GetSubmission(ctx context.Context, actor access.Actor, submissionID uuid.UUID) (*SubmissionResponse, error) {
	if err := access.RequireRole(actor, access.Instructor, access.Learner); err != nil {
		return nil, err
	}

	sub, a, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if actor.Is(access.Learner) {
		if sub.LearnerID != actor.ID {
			return nil, apperror.Forbidden("not your submission")
		}
	} else if err := access.RequireOwner(actor, a.Course.InstructorID, "not your assignment"); err != nil {
		return nil, err
	}

	resp := toSubmissionResponse(sub)
	return &resp, nil
}

func (s *assignmentService) Grade(ctx context.Context, actor access.Actor, submissionID uuid.UUID, dto GradeDTO) (*SubmissionResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	sub, a, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, a.Course.InstructorID, "not your assignment"); err != nil {
		return nil, err
	}
	if sub.Status != StatusSubmitted {
		return nil, apperror.Conflict("submission already reviewed")
	}

	now := s.now().UTC()
	sub.Status = StatusGraded
	sub.Grade = dto.Grade
	sub.Feedback = dto.Feedback
	sub.GradedAt = &now

	ok, err := s.repo.ReviewSubmission(ctx, sub)
	if err != nil {
		log.WithError(err).Error("Failed to grade submission")
		return nil, apperror.Internal(err, "failed to grade submission")
	}
	if !ok {
		return nil, apperror.Conflict("submission already reviewed")
	}

	log.WithField("submission_id", sub.ID.String()).Infof("Submission graded %.2f", *sub.Grade)
	resp := toSubmissionResponse(sub)
	return &resp, nil
}

func (s *assignmentService) Reject(ctx context.Context, actor access.Actor, submissionID uuid.UUID, dto RejectDTO) (*SubmissionResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	sub, a, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, a.Course.InstructorID, "not your assignment"); err != nil {
		return nil, err
	}
	if sub.Status != StatusSubmitted {
		return nil, apperror.Conflict("submission already reviewed")
	}

	now := s.now().UTC()
	sub.Status = StatusRejected
	sub.Grade = nil
	sub.Feedback = &dto.Feedback
	sub.GradedAt = &now

	ok, err := s.repo.ReviewSubmission(ctx, sub)
	if err != nil {
		log.WithError(err).Error("Failed to reject submission")
		return nil, apperror.Internal(err, "failed to reject submission")
	}
	if !ok {
		return nil, apperror.Conflict("submission already reviewed")
	}

	log.WithField("submission_id", sub.ID.String()).Info("Submission rejected")
	resp := toSubmissionResponse(sub)
	return &resp, nil
}
