package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
)

const URLPrefix = "/uploads"

// Object describes a stored upload.
type Object struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`
}

type Store interface {
	Save(ctx context.Context, category Category, filename string, r io.Reader) (*Object, error)
	Remove(ctx context.Context, obj *Object) error
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Root() string { return s.root }

// Save checks size and sniffed content type against the category rules and
// writes the file under <root>/<category>/<uuid><ext>. Files are never
// overwritten.
func (s *LocalStore) Save(ctx context.Context, category Category, filename string, r io.Reader) (*Object, error) {
	log := config.WithContext(ctx)

	rule, ok := rules[category]
	if !ok {
		return nil, apperror.Internal(fmt.Errorf("unknown category %q", category), "failed to store file")
	}

	data, err := io.ReadAll(io.LimitReader(r, rule.MaxSize+1))
	if err != nil {
		return nil, apperror.Internal(err, "failed to read upload")
	}
	if len(data) == 0 {
		return nil, apperror.Validation("uploaded file is empty", apperror.FieldError{Field: "file", Error: "file is empty"})
	}
	if int64(len(data)) > rule.MaxSize {
		return nil, apperror.Validation(
			fmt.Sprintf("file exceeds the %s limit for %s", humanSize(rule.MaxSize), category),
			apperror.FieldError{Field: "file", Error: "file too large"},
		)
	}

	mt := mimetype.Detect(data)
	if !rule.allows(mt) {
		log.Warnf("Rejected upload %q with type %s for %s", filename, mt.String(), category)
		return nil, apperror.Validation(
			fmt.Sprintf("file type %s is not allowed for %s", mt.String(), category),
			apperror.FieldError{Field: "file", Error: "unsupported file type"},
		)
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	name := uuid.New().String() + ext

	dir := filepath.Join(s.root, string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.Internal(err, "failed to create upload directory")
	}

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, apperror.Internal(err, "failed to create upload file")
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		return nil, apperror.Internal(err, "failed to write upload file")
	}
	if err := f.Close(); err != nil {
		return nil, apperror.Internal(err, "failed to write upload file")
	}

	obj := &Object{
		URL:  path.Join(URLPrefix, string(category), name),
		Name: name,
		MIME: mt.String(),
		Size: int64(len(data)),
	}
	log.Infof("Stored %s upload %s (%d bytes)", category, obj.URL, obj.Size)
	return obj, nil
}

// Remove deletes a previously saved object. Missing files are not an error.
func (s *LocalStore) Remove(ctx context.Context, obj *Object) error {
	clean := path.Clean(obj.URL)
	rel := strings.TrimPrefix(clean, URLPrefix+"/")
	if rel == clean || rel == "" {
		return fmt.Errorf("object %q is outside %s", obj.URL, URLPrefix)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	config.WithContext(ctx).Infof("Removed upload %s", obj.URL)
	return nil
}

// Discard removes an object whose owning row could not be written. Failures
// are logged only.
func Discard(ctx context.Context, s Store, obj *Object) {
	if obj == nil {
		return
	}
	if err := s.Remove(ctx, obj); err != nil {
		config.WithContext(ctx).WithError(err).Warnf("Failed to remove orphaned upload %s", obj.URL)
	}
}

func humanSize(n int64) string {
	return fmt.Sprintf("%dMB", n/(1<<20))
}
