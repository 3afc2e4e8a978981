package enrollment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/validation"
)

type CourseLookup interface {
	Lookup(ctx context.Context, id uint) (*course.Course, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, actor access.Actor, dto EnrollDTO) (*EnrollmentResponse, error)
	Unenroll(ctx context.Context, actor access.Actor, courseID uint) error
	Update(ctx context.Context, actor access.Actor, id uint, dto UpdateEnrollmentDTO) (*EnrollmentResponse, error)
	ListForLearner(ctx context.Context, actor access.Actor) ([]EnrollmentResponse, error)
	ListForCourse(ctx context.Context, actor access.Actor, courseID uint) ([]EnrollmentResponse, error)
	IsEnrolled(ctx context.Context, learnerID, courseID uint) (bool, error)
	CourseIDs(ctx context.Context, learnerID uint) ([]uint, error)
}

type enrollmentService struct {
	repo    EnrollmentRepository
	courses CourseLookup
}

func NewEnrollmentService(repo EnrollmentRepository, courses CourseLookup) EnrollmentService {
	return &enrollmentService{repo: repo, courses: courses}
}

func (s *enrollmentService) Enroll(ctx context.Context, actor access.Actor, dto EnrollDTO) (*EnrollmentResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Learner); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if _, err := s.courses.Lookup(ctx, dto.CourseID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByLearnerAndCourse(ctx, actor.ID, dto.CourseID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check enrollment")
	}
	if existing != nil {
		return nil, apperror.Conflict("already enrolled")
	}

	e := &Enrollment{
		LearnerID: actor.ID,
		CourseID:  dto.CourseID,
		Semester:  dto.Semester,
		Status:    DefaultStatus,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("already enrolled")
		}
		log.WithError(err).Error("Failed to create enrollment")
		return nil, apperror.Internal(err, "failed to enroll")
	}

	log.WithField("course_id", dto.CourseID).Info("Learner enrolled")
	resp := toResponse(e)
	return &resp, nil
}

// Unenroll removes only the enrollment row; submissions stay as history.
func (s *enrollmentService) Unenroll(ctx context.Context, actor access.Actor, courseID uint) error {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Learner); err != nil {
		return err
	}

	e, err := s.repo.FindByLearnerAndCourse(ctx, actor.ID, courseID)
	if err != nil {
		return apperror.Internal(err, "failed to load enrollment")
	}
	if e == nil {
		return apperror.NotFound("enrollment not found")
	}

	if err := s.repo.Delete(ctx, e.ID); err != nil {
		log.WithError(err).Error("Failed to delete enrollment")
		return apperror.Internal(err, "failed to unenroll")
	}

	log.WithField("course_id", courseID).Info("Learner unenrolled")
	return nil
}

func (s *enrollmentService) Update(ctx context.Context, actor access.Actor, id uint, dto UpdateEnrollmentDTO) (*EnrollmentResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Learner); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load enrollment")
	}
	if e == nil {
		return nil, apperror.NotFound("enrollment not found")
	}
	if e.LearnerID != actor.ID {
		log.Warnf("Learner %d denied update of enrollment %d", actor.ID, id)
		return nil, apperror.Forbidden("you can only update your own enrollment")
	}

	if dto.Semester != nil {
		e.Semester = dto.Semester
	}
	if dto.Status != nil {
		e.Status = *dto.Status
	}

	if err := s.repo.Update(ctx, e); err != nil {
		log.WithError(err).Error("Failed to update enrollment")
		return nil, apperror.Internal(err, "failed to update enrollment")
	}

	resp := toResponse(e)
	return &resp, nil
}

func (s *enrollmentService) ListForLearner(ctx context.Context, actor access.Actor) ([]EnrollmentResponse, error) {
	if err := access.RequireRole(actor, access.Learner); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByLearner(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list enrollments")
	}
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, nil
}

func (s *enrollmentService) ListForCourse(ctx context.Context, actor access.Actor, courseID uint) ([]EnrollmentResponse, error) {
	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}

	c, err := s.courses.Lookup(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, c.InstructorID, "you are not allowed to view this course"); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list enrollments")
	}
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, nil
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, learnerID, courseID uint) (bool, error) {
	return s.repo.IsEnrolled(ctx, learnerID, courseID)
}

func (s *enrollmentService) CourseIDs(ctx context.Context, learnerID uint) ([]uint, error) {
	return s.repo.CourseIDs(ctx, learnerID)
}
