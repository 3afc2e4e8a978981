package course

import (
	"context"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	"github.com/saulo-duarte/classroom-lms/internal/validation"
)

const recentLimit = 5

type CourseService interface {
	Lookup(ctx context.Context, id uint) (*Course, error)
	List(ctx context.Context) ([]CourseResponse, error)
	ListMine(ctx context.Context, actor access.Actor) ([]CourseResponse, error)
	Get(ctx context.Context, id uint) (*CourseResponse, error)
	Create(ctx context.Context, actor access.Actor, dto CreateCourseDTO, image *storage.Upload) (*CourseResponse, error)
	Update(ctx context.Context, actor access.Actor, id uint, dto UpdateCourseDTO) (*CourseResponse, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
	AddModule(ctx context.Context, actor access.Actor, courseID uint, dto CreateModuleDTO, file *storage.Upload) (*Module, error)
	ListModules(ctx context.Context, actor access.Actor, courseID uint) ([]Module, error)
}

type courseService struct {
	repo   CourseRepository
	store  storage.Store
	policy *access.Policy
}

func NewCourseService(repo CourseRepository, store storage.Store, policy *access.Policy) CourseService {
	return &courseService{repo: repo, store: store, policy: policy}
}

// Lookup loads a course or fails with NotFound.
func (s *courseService) Lookup(ctx context.Context, id uint) (*Course, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load course")
	}
	if c == nil {
		return nil, apperror.NotFound("course not found")
	}
	return c, nil
}

func (s *courseService) List(ctx context.Context) ([]CourseResponse, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list courses")
	}
	return s.withContent(ctx, courses, false, 0)
}

func (s *courseService) ListMine(ctx context.Context, actor access.Actor) ([]CourseResponse, error) {
	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	courses, err := s.repo.ListByInstructor(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list courses")
	}
	return s.withContent(ctx, courses, true, recentLimit)
}

func (s *courseService) Get(ctx context.Context, id uint) (*CourseResponse, error) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.withContent(ctx, []Course{*c}, true, 0)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// withContent builds responses annotated with assignment and quiz summaries
// and, optionally, counts. A positive limit keeps only the most recent items.
func (s *courseService) withContent(ctx context.Context, courses []Course, counts bool, limit int) ([]CourseResponse, error) {
	ids := make([]uint, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}

	assignments, err := s.repo.AssignmentSummaries(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load assignments")
	}
	quizzes, err := s.repo.QuizSummaries(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load quizzes")
	}
	var countsByCourse map[uint]Counts
	if counts {
		if countsByCourse, err = s.repo.Counts(ctx, ids); err != nil {
			return nil, apperror.Internal(err, "failed to count course content")
		}
	}

	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		resp := ToResponse(&courses[i])
		resp.Assignments = truncate(assignments[courses[i].ID], limit)
		resp.Quizzes = truncate(quizzes[courses[i].ID], limit)
		if counts {
			c := countsByCourse[courses[i].ID]
			resp.Counts = &c
		}
		out = append(out, resp)
	}
	return out, nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (s *courseService) Create(ctx context.Context, actor access.Actor, dto CreateCourseDTO, image *storage.Upload) (*CourseResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	c := &Course{
		Title:        dto.Title,
		Description:  dto.Description,
		Brief:        dto.Brief,
		Code:         dto.Code,
		InstructorID: actor.ID,
	}

	var obj *storage.Object
	if image != nil {
		defer image.Body.Close()
		var err error
		if obj, err = s.store.Save(ctx, storage.CategoryCourses, image.Filename, image.Body); err != nil {
			return nil, err
		}
		c.ImageURL = &obj.URL
	}

	if err := s.repo.Create(ctx, c); err != nil {
		storage.Discard(ctx, s.store, obj)
		log.WithError(err).Error("Failed to create course")
		return nil, apperror.Internal(err, "failed to create course")
	}

	log.WithField("course_id", c.ID).Info("Course created")
	resp := ToResponse(c)
	return &resp, nil
}

// loadOwned fetches a course and checks that the actor owns it.
func (s *courseService) loadOwned(ctx context.Context, actor access.Actor, id uint) (*Course, error) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwner(actor, c.InstructorID, "you are not allowed to modify this course"); err != nil {
		config.WithContext(ctx).Warnf("Instructor %d denied on course %d owned by %d", actor.ID, c.ID, c.InstructorID)
		return nil, err
	}
	return c, nil
}

func (s *courseService) Update(ctx context.Context, actor access.Actor, id uint, dto UpdateCourseDTO) (*CourseResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	c, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.Brief != nil {
		c.Brief = dto.Brief
	}
	if dto.Code != nil {
		c.Code = dto.Code
	}

	if err := s.repo.Update(ctx, c); err != nil {
		log.WithError(err).Error("Failed to update course")
		return nil, apperror.Internal(err, "failed to update course")
	}

	log.WithField("course_id", c.ID).Info("Course updated")
	resp := ToResponse(c)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, actor access.Actor, id uint) error {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return err
	}
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete course")
		return apperror.Internal(err, "failed to delete course")
	}

	log.WithField("course_id", id).Info("Course deleted")
	return nil
}

func (s *courseService) AddModule(ctx context.Context, actor access.Actor, courseID uint, dto CreateModuleDTO, file *storage.Upload) (*Module, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if file != nil {
		defer file.Body.Close()
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperror.Validation("module file is required", apperror.FieldError{Field: "file", Error: "this field is required"})
	}

	if _, err := s.loadOwned(ctx, actor, courseID); err != nil {
		return nil, err
	}

	obj, err := s.store.Save(ctx, storage.CategoryModules, file.Filename, file.Body)
	if err != nil {
		return nil, err
	}

	m := &Module{
		CourseID:    courseID,
		Title:       dto.Title,
		Description: dto.Description,
		FileURL:     obj.URL,
		FileType:    FileTypeFromMIME(obj.MIME),
	}
	if err := s.repo.CreateModule(ctx, m); err != nil {
		storage.Discard(ctx, s.store, obj)
		log.WithError(err).Error("Failed to create module")
		return nil, apperror.Internal(err, "failed to create module")
	}

	log.WithField("course_id", courseID).Infof("Module %d added", m.ID)
	return m, nil
}

func (s *courseService) ListModules(ctx context.Context, actor access.Actor, courseID uint) ([]Module, error) {
	c, err := s.Lookup(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CourseContent(ctx, actor, c.ID, c.InstructorID); err != nil {
		return nil, err
	}

	modules, err := s.repo.ListModules(ctx, courseID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list modules")
	}
	return modules, nil
}
