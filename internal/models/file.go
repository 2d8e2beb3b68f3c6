package models

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// File is implemented by every WebFile variant.
type File interface {
	Unwrap() WebFile
}

var (
	_ File = WebFile{}
	_ File = UploadedWebFile{}
	_ File = TemporaryWebFile{}
	_ File = DirectlyUploadedWebFile{}
)

// WebFile identifies a stored file by filesystem name and path.
type WebFile struct {
	Filesystem string `json:"fileSystem"`
	Path       string `json:"path"`
}

func NewWebFile(filesystem, filePath string) WebFile {
	return WebFile{Filesystem: filesystem, Path: filePath}
}

// Unwrap returns the plain WebFile behind any variant.
func (f WebFile) Unwrap() WebFile { return f }

// Name returns the last path segment.
func (f WebFile) Name() string {
	return path.Base(f.Path)
}

func (f WebFile) IsZero() bool {
	return f.Filesystem == "" && f.Path == ""
}

func (f WebFile) String() string {
	return fmt.Sprintf("%s://%s", f.Filesystem, f.Path)
}

// UploadedWebFile is a file just received from a client through a regular form upload.
type UploadedWebFile struct {
	WebFile
	Stream       io.ReadCloser
	OriginalName string
	MimeType     string
	Size         int64
	Err          error
}

// TemporaryWebFile lives on a scratch filesystem until it is moved to its final place.
type TemporaryWebFile struct {
	WebFile
}

func NewTemporaryWebFile(filesystem, filePath string) TemporaryWebFile {
	return TemporaryWebFile{WebFile: NewWebFile(filesystem, filePath)}
}

// DirectlyUploadedWebFile is registered before the client sends any bytes to storage.
type DirectlyUploadedWebFile struct {
	WebFile
}

func NewDirectlyUploadedWebFile(filesystem, filePath string) DirectlyUploadedWebFile {
	return DirectlyUploadedWebFile{WebFile: NewWebFile(filesystem, filePath)}
}

// ValidatePath rejects absolute paths, empty segments and parent references.
func ValidatePath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") || strings.Contains(p, "\x00") {
		return fmt.Errorf("invalid path %q", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("invalid path %q", p)
		}
	}
	return nil
}
