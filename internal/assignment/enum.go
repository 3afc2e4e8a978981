package assignment

type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusGraded    SubmissionStatus = "GRADED"
	StatusRejected  SubmissionStatus = "REJECTED"
)

var AllStatuses = []SubmissionStatus{
	StatusSubmitted,
	StatusGraded,
	StatusRejected,
}

func (s SubmissionStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}
