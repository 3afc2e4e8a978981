package storage

import "github.com/gabriel-vasile/mimetype"

type Category string

const (
	CategoryCourses     Category = "courses"
	CategoryProfiles    Category = "profiles"
	CategoryModules     Category = "modules"
	CategorySubmissions Category = "submissions"
)

const mb = 1 << 20

var imageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

type rule struct {
	MaxSize int64
	Types   []string
}

var rules = map[Category]rule{
	CategoryCourses:  {MaxSize: 5 * mb, Types: imageTypes},
	CategoryProfiles: {MaxSize: 5 * mb, Types: imageTypes},
	CategoryModules: {MaxSize: 50 * mb, Types: []string{
		"application/pdf",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"video/mp4",
		"video/webm",
		"video/x-msvideo",
		"video/quicktime",
	}},
	CategorySubmissions: {MaxSize: 10 * mb, Types: append([]string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"text/plain",
	}, imageTypes...)},
}

func (r rule) allows(mt *mimetype.MIME) bool {
	for _, t := range r.Types {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

// MaxSize reports the upload limit of a category, or 0 when it is unknown.
func MaxSize(c Category) int64 {
	return rules[c].MaxSize
}
