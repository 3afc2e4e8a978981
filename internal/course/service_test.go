package course_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/assignment"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	"github.com/saulo-duarte/classroom-lms/internal/testutil"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

const pdf = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"

var png = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

func upload(name, body string) *storage.Upload {
	return &storage.Upload{Filename: name, Body: io.NopCloser(strings.NewReader(body))}
}

type fixture struct {
	db         *gorm.DB
	svc        course.CourseService
	instructor *user.User
	other      *user.User
	learner    *user.User
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.DB(t)
	policy := access.NewPolicy(enrollment.NewEnrollmentRepository(db))
	f := &fixture{
		db:  db,
		svc: course.NewCourseService(course.NewCourseRepository(db), storage.NewLocalStore(t.TempDir()), policy),
	}
	f.instructor = testutil.CreateUser(t, db, "Ana Instructor", access.Instructor)
	f.other = testutil.CreateUser(t, db, "Bo Instructor", access.Instructor)
	f.learner = testutil.CreateUser(t, db, "Cas Learner", access.Learner)
	return f
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("WithImage", func(t *testing.T) {
		f := setup(t)
		c, err := f.svc.Create(ctx, testutil.Actor(f.instructor), course.CreateCourseDTO{Title: "Networks", Description: "TCP/IP"}, upload("cover.png", png))
		require.NoError(t, err)
		assert.Equal(t, f.instructor.ID, c.InstructorID)
		require.NotNil(t, c.ImageURL)
		assert.True(t, strings.HasPrefix(*c.ImageURL, "/uploads/courses/"))
	})

	t.Run("RejectsNonImage", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, testutil.Actor(f.instructor), course.CreateCourseDTO{Title: "Networks", Description: "TCP/IP"}, upload("cover.pdf", pdf))
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("LearnerRole", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, testutil.Actor(f.learner), course.CreateCourseDTO{Title: "Networks", Description: "TCP/IP"}, nil)
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})

	t.Run("MissingTitle", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Create(ctx, testutil.Actor(f.instructor), course.CreateCourseDTO{Description: "TCP/IP"}, nil)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})
}

func TestUpdateAndDeleteCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerUpdates", func(t *testing.T) {
		f := setup(t)
		c := testutil.CreateCourse(t, f.db, f.instructor, "Networks")
		title := "Networks II"

		got, err := f.svc.Update(ctx, testutil.Actor(f.instructor), c.ID, course.UpdateCourseDTO{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Networks II", got.Title)
	})

	t.Run("NotOwner", func(t *testing.T) {
		f := setup(t)
		c := testutil.CreateCourse(t, f.db, f.instructor, "Networks")
		title := "mine now"

		_, err := f.svc.Update(ctx, testutil.Actor(f.other), c.ID, course.UpdateCourseDTO{Title: &title})
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
		assert.True(t, errors.Is(f.svc.Delete(ctx, testutil.Actor(f.other), c.ID), apperror.ErrForbidden))
	})

	t.Run("Missing", func(t *testing.T) {
		f := setup(t)
		assert.True(t, errors.Is(f.svc.Delete(ctx, testutil.Actor(f.instructor), 77), apperror.ErrNotFound))
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		f := setup(t)
		c := testutil.CreateCourse(t, f.db, f.instructor, "Networks")
		testutil.Enroll(t, f.db, f.learner, c)

		a := &assignment.Assignment{CourseID: c.ID, Title: "Lab 1", Description: "sockets"}
		require.NoError(t, f.db.Omit("Course").Create(a).Error)
		sub := &assignment.Submission{AssignmentID: a.ID, LearnerID: f.learner.ID, FileURL: "/uploads/submissions/x.pdf", Status: assignment.StatusSubmitted}
		require.NoError(t, f.db.Omit("Learner").Create(sub).Error)

		q := &quiz.Quiz{CourseID: c.ID, Title: "Quiz 1"}
		require.NoError(t, f.db.Omit("Course").Create(q).Error)
		require.NoError(t, f.db.Create(&quiz.Question{QuizID: q.ID, Question: "?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: quiz.OptionA, Order: 1}).Error)

		_, err := f.svc.AddModule(ctx, testutil.Actor(f.instructor), c.ID, course.CreateModuleDTO{Title: "Week 1"}, upload("notes.pdf", pdf))
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, testutil.Actor(f.instructor), c.ID))

		for _, table := range []string{"courses", "modules", "enrollments", "assignments", "submissions", "quizzes", "questions"} {
			var n int64
			require.NoError(t, f.db.Table(table).Count(&n).Error)
			assert.Zero(t, n, table)
		}
	})
}

func TestModules(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := testutil.CreateCourse(t, f.db, f.instructor, "Operating Systems")

	t.Run("FileRequired", func(t *testing.T) {
		_, err := f.svc.AddModule(ctx, testutil.Actor(f.instructor), c.ID, course.CreateModuleDTO{Title: "Week 1"}, nil)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("AddsDocument", func(t *testing.T) {
		m, err := f.svc.AddModule(ctx, testutil.Actor(f.instructor), c.ID, course.CreateModuleDTO{Title: "Week 1"}, upload("notes.pdf", pdf))
		require.NoError(t, err)
		assert.Equal(t, course.FileTypeDocument, m.FileType)
		assert.True(t, strings.HasPrefix(m.FileURL, "/uploads/modules/"))
	})

	t.Run("NotOwner", func(t *testing.T) {
		_, err := f.svc.AddModule(ctx, testutil.Actor(f.other), c.ID, course.CreateModuleDTO{Title: "Week 2"}, upload("notes.pdf", pdf))
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})

	t.Run("LearnerNeedsEnrollment", func(t *testing.T) {
		_, err := f.svc.ListModules(ctx, testutil.Actor(f.learner), c.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))

		testutil.Enroll(t, f.db, f.learner, c)
		modules, err := f.svc.ListModules(ctx, testutil.Actor(f.learner), c.ID)
		require.NoError(t, err)
		assert.Len(t, modules, 1)
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := testutil.CreateCourse(t, f.db, f.instructor, "Databases")
	testutil.CreateCourse(t, f.db, f.other, "Graphics")
	testutil.Enroll(t, f.db, f.learner, c)

	mine, err := f.svc.ListMine(ctx, testutil.Actor(f.instructor))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Counts)
	assert.EqualValues(t, 1, mine[0].Counts.Enrollments)
	assert.Zero(t, mine[0].Counts.Quizzes)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.ListMine(ctx, testutil.Actor(f.learner))
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}
