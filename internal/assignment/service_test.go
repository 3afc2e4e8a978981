package assignment_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/assignment"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	"github.com/saulo-duarte/classroom-lms/internal/testutil"
	"github.com/saulo-duarte/classroom-lms/internal/user"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

const pdf = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"

func report() *storage.Upload {
	return &storage.Upload{Filename: "report.pdf", Body: io.NopCloser(strings.NewReader(pdf))}
}

type fixture struct {
	db  *gorm.DB
	svc assignment.AssignmentService

	owner    *user.User
	other    *user.User
	learner  *user.User
	outsider *user.User
	course   *course.Course
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.DB(t)
	enrollments := enrollment.NewEnrollmentRepository(db)
	policy := access.NewPolicy(enrollments)
	store := storage.NewLocalStore(t.TempDir())
	courses := course.NewCourseService(course.NewCourseRepository(db), store, policy)

	f := &fixture{
		db:  db,
		svc: assignment.NewAssignmentService(assignment.NewAssignmentRepository(db), courses, enrollments, policy, store),
	}
	f.owner = testutil.CreateUser(t, db, "Eve Instructor", access.Instructor)
	f.other = testutil.CreateUser(t, db, "Fay Instructor", access.Instructor)
	f.learner = testutil.CreateUser(t, db, "Gus Learner", access.Learner)
	f.outsider = testutil.CreateUser(t, db, "Hal Learner", access.Learner)
	f.course = testutil.CreateCourse(t, db, f.owner, "Algorithms")
	testutil.Enroll(t, db, f.learner, f.course)
	return f
}

func (f *fixture) create(t *testing.T) *assignment.AssignmentResponse {
	t.Helper()
	a, err := f.svc.Create(context.Background(), testutil.Actor(f.owner), assignment.CreateAssignmentDTO{
		CourseID:    f.course.ID,
		Title:       "Sorting",
		Description: "Implement merge sort",
		DueDate:     &util.LocalDateTime{Time: time.Now().Add(-time.Hour)},
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) submissions(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&assignment.Submission{}).Count(&n).Error)
	return n
}

func TestCreateAssignment(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	t.Run("Owner", func(t *testing.T) {
		a := f.create(t)
		assert.Equal(t, f.course.ID, a.CourseID)
		require.NotNil(t, a.Course)
		assert.Equal(t, "Algorithms", a.Course.Title)
	})

	t.Run("NotOwner", func(t *testing.T) {
		_, err := f.svc.Create(ctx, testutil.Actor(f.other), assignment.CreateAssignmentDTO{CourseID: f.course.ID, Title: "x", Description: "y"})
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})

	t.Run("Learner", func(t *testing.T) {
		_, err := f.svc.Create(ctx, testutil.Actor(f.learner), assignment.CreateAssignmentDTO{CourseID: f.course.ID, Title: "x", Description: "y"})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})

	t.Run("MissingCourse", func(t *testing.T) {
		_, err := f.svc.Create(ctx, testutil.Actor(f.owner), assignment.CreateAssignmentDTO{CourseID: 500, Title: "x", Description: "y"})
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestSubmitAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("FileRequired", func(t *testing.T) {
		f := setup(t)
		a := f.create(t)
		_, err := f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, nil)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		f := setup(t)
		a := f.create(t)
		_, err := f.svc.Submit(ctx, testutil.Actor(f.outsider), a.ID, report())
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
		assert.Zero(t, f.submissions(t))
	})

	t.Run("OnceOnly", func(t *testing.T) {
		f := setup(t)
		a := f.create(t)

		sub, err := f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusSubmitted, sub.Status)
		assert.True(t, strings.HasPrefix(sub.FileURL, "/uploads/submissions/"))

		_, err = f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
		assert.True(t, errors.Is(err, apperror.ErrConflict))
		assert.EqualValues(t, 1, f.submissions(t))
	})

	t.Run("ConcurrentDuplicates", func(t *testing.T) {
		f := setup(t)
		a := f.create(t)

		const attempts = 6
		errs := make([]error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, apperror.ErrConflict), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)
		assert.EqualValues(t, 1, f.submissions(t))
	})

	t.Run("RejectedStaysLocked", func(t *testing.T) {
		f := setup(t)
		a := f.create(t)
		sub, err := f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
		require.NoError(t, err)
		_, err = f.svc.Reject(ctx, testutil.Actor(f.owner), sub.ID, assignment.RejectDTO{Feedback: "wrong file"})
		require.NoError(t, err)

		_, err = f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
		assert.True(t, errors.Is(err, apperror.ErrConflict))
	})
}

func TestGrading(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.create(t)
	sub, err := f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
	require.NoError(t, err)

	testutil.Enroll(t, f.db, f.outsider, f.course)
	rejected, err := f.svc.Submit(ctx, testutil.Actor(f.outsider), a.ID, report())
	require.NoError(t, err)

	grade := func(v float64) assignment.GradeDTO { return assignment.GradeDTO{Grade: &v} }

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, testutil.Actor(f.owner), sub.ID, grade(101))
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("OtherInstructor", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, testutil.Actor(f.other), sub.ID, grade(90))
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})

	t.Run("Owner", func(t *testing.T) {
		got, err := f.svc.Grade(ctx, testutil.Actor(f.owner), sub.ID, grade(88.5))
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusGraded, got.Status)
		require.NotNil(t, got.Grade)
		assert.Equal(t, 88.5, *got.Grade)
		assert.NotNil(t, got.GradedAt)
	})

	t.Run("GradedIsFinal", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, testutil.Actor(f.owner), sub.ID, grade(40))
		assert.True(t, errors.Is(err, apperror.ErrConflict))

		_, err = f.svc.Reject(ctx, testutil.Actor(f.owner), sub.ID, assignment.RejectDTO{Feedback: "plagiarism"})
		assert.True(t, errors.Is(err, apperror.ErrConflict))

		got, err := f.svc.GetSubmission(ctx, testutil.Actor(f.owner), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusGraded, got.Status)
		require.NotNil(t, got.Grade)
		assert.Equal(t, 88.5, *got.Grade)
	})

	t.Run("RejectNeedsFeedback", func(t *testing.T) {
		_, err := f.svc.Reject(ctx, testutil.Actor(f.owner), rejected.ID, assignment.RejectDTO{})
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("Reject", func(t *testing.T) {
		got, err := f.svc.Reject(ctx, testutil.Actor(f.owner), rejected.ID, assignment.RejectDTO{Feedback: "wrong file"})
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusRejected, got.Status)
		assert.Nil(t, got.Grade)
		require.NotNil(t, got.Feedback)
		assert.Equal(t, "wrong file", *got.Feedback)
	})

	t.Run("RejectedIsFinal", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, testutil.Actor(f.owner), rejected.ID, grade(70))
		assert.True(t, errors.Is(err, apperror.ErrConflict))

		got, err := f.svc.GetSubmission(ctx, testutil.Actor(f.owner), rejected.ID)
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusRejected, got.Status)
		assert.Nil(t, got.Grade)
	})

	t.Run("ConcurrentReviews", func(t *testing.T) {
		late := testutil.CreateUser(t, f.db, "Ivy Learner", access.Learner)
		testutil.Enroll(t, f.db, late, f.course)
		pending, err := f.svc.Submit(ctx, testutil.Actor(late), a.ID, report())
		require.NoError(t, err)

		var wg sync.WaitGroup
		var mu sync.Mutex
		ok := 0
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				var err error
				if i%2 == 0 {
					_, err = f.svc.Grade(ctx, testutil.Actor(f.owner), pending.ID, grade(float64(60+i)))
				} else {
					_, err = f.svc.Reject(ctx, testutil.Actor(f.owner), pending.ID, assignment.RejectDTO{Feedback: "late"})
				}
				if err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, ok)
	})

	t.Run("MissingSubmission", func(t *testing.T) {
		_, err := f.svc.Grade(ctx, testutil.Actor(f.owner), a.ID, grade(50))
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestReads(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.create(t)
	sub, err := f.svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
	require.NoError(t, err)

	t.Run("LearnerList", func(t *testing.T) {
		items, err := f.svc.List(ctx, testutil.Actor(f.learner))
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].IsSubmitted)
		assert.True(t, *items[0].IsSubmitted)
		require.NotNil(t, items[0].Submission)
		assert.Equal(t, sub.ID, items[0].Submission.ID)
	})

	t.Run("OutsiderListIsEmpty", func(t *testing.T) {
		items, err := f.svc.List(ctx, testutil.Actor(f.outsider))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("InstructorList", func(t *testing.T) {
		items, err := f.svc.List(ctx, testutil.Actor(f.owner))
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].TotalSubmissions)
		assert.EqualValues(t, 1, *items[0].TotalSubmissions)
	})

	t.Run("ByCourseGate", func(t *testing.T) {
		_, err := f.svc.ListByCourse(ctx, testutil.Actor(f.outsider), f.course.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))

		_, err = f.svc.ListByCourse(ctx, testutil.Actor(f.other), f.course.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})

	t.Run("GetAsOwner", func(t *testing.T) {
		got, err := f.svc.Get(ctx, testutil.Actor(f.owner), a.ID)
		require.NoError(t, err)
		require.Len(t, got.Submissions, 1)
		require.NotNil(t, got.Submissions[0].Learner)
		assert.Equal(t, f.learner.Name, got.Submissions[0].Learner.Name)
	})

	t.Run("GetSubmission", func(t *testing.T) {
		_, err := f.svc.GetSubmission(ctx, testutil.Actor(f.learner), sub.ID)
		assert.NoError(t, err)

		_, err = f.svc.GetSubmission(ctx, testutil.Actor(f.outsider), sub.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))

		_, err = f.svc.GetSubmission(ctx, testutil.Actor(f.other), sub.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})

	t.Run("ListSubmissions", func(t *testing.T) {
		out, err := f.svc.ListSubmissions(ctx, testutil.Actor(f.owner), a.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, out.TotalSubmissions)

		_, err = f.svc.ListSubmissions(ctx, testutil.Actor(f.other), a.ID)
		assert.True(t, errors.Is(err, apperror.ErrForbidden))
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		title := "Sorting v2"
		_, err := f.svc.Update(ctx, testutil.Actor(f.other), a.ID, assignment.UpdateAssignmentDTO{Title: &title})
		assert.True(t, errors.Is(err, apperror.ErrForbidden))

		got, err := f.svc.Update(ctx, testutil.Actor(f.owner), a.ID, assignment.UpdateAssignmentDTO{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Sorting v2", got.Title)

		require.NoError(t, f.svc.Delete(ctx, testutil.Actor(f.owner), a.ID))
		assert.Zero(t, f.submissions(t))

		_, err = f.svc.Get(ctx, testutil.Actor(f.owner), a.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

type racingRepo struct {
	assignment.AssignmentRepository
}

// CreateSubmission behaves as if a concurrent request inserted the row first.
func (racingRepo) CreateSubmission(context.Context, *assignment.Submission) error {
	return gorm.ErrDuplicatedKey
}

func TestSubmitLostRaceRemovesFile(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.create(t)

	root := t.TempDir()
	store := storage.NewLocalStore(root)
	enrollments := enrollment.NewEnrollmentRepository(f.db)
	policy := access.NewPolicy(enrollments)
	courses := course.NewCourseService(course.NewCourseRepository(f.db), store, policy)
	svc := assignment.NewAssignmentService(racingRepo{assignment.NewAssignmentRepository(f.db)}, courses, enrollments, policy, store)

	_, err := svc.Submit(ctx, testutil.Actor(f.learner), a.ID, report())
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	entries, err := os.ReadDir(filepath.Join(root, string(storage.CategorySubmissions)))
	if err == nil {
		assert.Empty(t, entries)
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}
