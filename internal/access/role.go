package access

import "strings"

type Role string

const (
	Learner    Role = "LEARNER"
	Instructor Role = "INSTRUCTOR"
)

var AllRoles = []Role{
	Learner,
	Instructor,
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRole accepts the canonical names plus the STUDENT/LECTURER aliases
// issued by older clients.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEARNER", "STUDENT":
		return Learner, true
	case "INSTRUCTOR", "LECTURER":
		return Instructor, true
	}
	return "", false
}
