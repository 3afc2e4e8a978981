package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
)

type fakeEnrollments map[[2]uint]bool

func (f fakeEnrollments) IsEnrolled(_ context.Context, learnerID, courseID uint) (bool, error) {
	return f[[2]uint{learnerID, courseID}], nil
}

type failingEnrollments struct{}

func (failingEnrollments) IsEnrolled(context.Context, uint, uint) (bool, error) {
	return false, errors.New("db down")
}

func TestRequireRole(t *testing.T) {
	learner := access.Actor{ID: 1, Role: access.Learner}

	assert.NoError(t, access.RequireRole(learner, access.Learner))
	assert.NoError(t, access.RequireRole(learner, access.Instructor, access.Learner))

	err := access.RequireRole(learner, access.Instructor)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}

func TestRequireOwner(t *testing.T) {
	owner := access.Actor{ID: 7, Role: access.Instructor}
	other := access.Actor{ID: 8, Role: access.Instructor}

	assert.NoError(t, access.RequireOwner(owner, 7, "not your quiz"))

	err := access.RequireOwner(other, 7, "not your quiz")
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	assert.EqualError(t, err, "not your quiz")

	learnerWithSameID := access.Actor{ID: 7, Role: access.Learner}
	assert.True(t, errors.Is(access.RequireOwner(learnerWithSameID, 7, "x"), apperror.ErrForbidden))
}

func TestCourseContent(t *testing.T) {
	ctx := context.Background()
	policy := access.NewPolicy(fakeEnrollments{{2, 10}: true})

	tests := []struct {
		name    string
		actor   access.Actor
		want    error
		wantNil bool
	}{
		{name: "OwnerInstructor", actor: access.Actor{ID: 1, Role: access.Instructor}, wantNil: true},
		{name: "OtherInstructor", actor: access.Actor{ID: 3, Role: access.Instructor}, want: apperror.ErrForbidden},
		{name: "EnrolledLearner", actor: access.Actor{ID: 2, Role: access.Learner}, wantNil: true},
		{name: "NotEnrolledLearner", actor: access.Actor{ID: 4, Role: access.Learner}, want: apperror.ErrForbidden},
		{name: "UnknownRole", actor: access.Actor{ID: 1, Role: "ADMIN"}, want: apperror.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CourseContent(ctx, tt.actor, 10, 1)
			if tt.wantNil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("CheckerFailureIsInternal", func(t *testing.T) {
		p := access.NewPolicy(failingEnrollments{})
		err := p.RequireEnrollment(ctx, access.Actor{ID: 2, Role: access.Learner}, 10)
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})
}

func TestParseRole(t *testing.T) {
	r, ok := access.ParseRole("student")
	assert.True(t, ok)
	assert.Equal(t, access.Learner, r)

	r, ok = access.ParseRole("LECTURER")
	assert.True(t, ok)
	assert.Equal(t, access.Instructor, r)

	_, ok = access.ParseRole("admin")
	assert.False(t, ok)
	assert.False(t, access.Role("admin").IsValid())
}
