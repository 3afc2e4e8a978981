package storage

import (
	"errors"
	"io"
	"net/http"
)

const maxMultipartMemory = 8 << 20

var ErrNoFile = errors.New("no file provided")

// Upload is a file received from a client, not yet stored.
type Upload struct {
	Filename string
	Body     io.ReadCloser
}

// FormUpload returns the named multipart file, or ErrNoFile when the request
// carries none. Callers must close the returned body.
func FormUpload(r *http.Request, field string) (*Upload, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	f, h, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, ErrNoFile
	}
	if err != nil {
		return nil, err
	}
	return &Upload{Filename: h.Filename, Body: f}, nil
}
