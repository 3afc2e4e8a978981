package access

import (
	"context"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role Role
}

func (a Actor) Is(r Role) bool { return a.Role == r }

// EnrollmentChecker answers whether a learner holds an enrollment row for a course.
type EnrollmentChecker interface {
	IsEnrolled(ctx context.Context, learnerID, courseID uint) (bool, error)
}

// RequireRole fails with Unauthorized when the actor's role is not listed.
func RequireRole(actor Actor, roles ...Role) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return apperror.Unauthorized("role %s is not allowed to perform this action", actor.Role)
}

// RequireOwner fails with Forbidden unless the actor owns the course.
func RequireOwner(actor Actor, ownerID uint, message string) error {
	if actor.Role != Instructor || actor.ID != ownerID {
		return apperror.Forbidden("%s", message)
	}
	return nil
}

type gate func(ctx context.Context, actor Actor, courseID, ownerID uint) error

type Policy struct {
	enrollments EnrollmentChecker
	gates       map[Role]gate
}

func NewPolicy(enrollments EnrollmentChecker) *Policy {
	p := &Policy{enrollments: enrollments}
	p.gates = map[Role]gate{
		Instructor: func(_ context.Context, actor Actor, _, ownerID uint) error {
			return RequireOwner(actor, ownerID, "not your course")
		},
		Learner: func(ctx context.Context, actor Actor, courseID, _ uint) error {
			return p.RequireEnrollment(ctx, actor, courseID)
		},
	}
	return p
}

// RequireEnrollment fails with Forbidden unless the learner is enrolled in the course.
func (p *Policy) RequireEnrollment(ctx context.Context, actor Actor, courseID uint) error {
	if actor.Role != Learner {
		return apperror.Forbidden("only enrolled learners can access this course")
	}
	ok, err := p.enrollments.IsEnrolled(ctx, actor.ID, courseID)
	if err != nil {
		return apperror.Internal(err, "failed to check enrollment")
	}
	if !ok {
		return apperror.Forbidden("you are not enrolled in this course")
	}
	return nil
}

// CourseContent decides read access to a course's modules, assignments and
// quizzes: instructors must own the course, learners must be enrolled.
func (p *Policy) CourseContent(ctx context.Context, actor Actor, courseID, ownerID uint) error {
	g, ok := p.gates[actor.Role]
	if !ok {
		return apperror.Unauthorized("unknown role %q", actor.Role)
	}
	return g(ctx, actor, courseID, ownerID)
}
