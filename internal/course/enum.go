package course

import "strings"

type FileType string

const (
	FileTypeVideo    FileType = "VIDEO"
	FileTypeSlides   FileType = "SLIDES"
	FileTypeDocument FileType = "DOCUMENT"
	FileTypeOther    FileType = "OTHER"
)

var AllFileTypes = []FileType{
	FileTypeVideo,
	FileTypeSlides,
	FileTypeDocument,
	FileTypeOther,
}

func (t FileType) IsValid() bool {
	for _, v := range AllFileTypes {
		if t == v {
			return true
		}
	}
	return false
}

// FileTypeFromMIME classifies a module upload by its content type.
func FileTypeFromMIME(mime string) FileType {
	mime = strings.ToLower(mime)
	switch {
	case strings.HasPrefix(mime, "video/"):
		return FileTypeVideo
	case strings.Contains(mime, "powerpoint"), strings.Contains(mime, "presentation"):
		return FileTypeSlides
	case strings.Contains(mime, "pdf"), strings.Contains(mime, "word"):
		return FileTypeDocument
	default:
		return FileTypeOther
	}
}
