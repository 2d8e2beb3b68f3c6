// Package directupload lets clients upload straight to a storage backend. An
// Adapter speaks to one backend; the Registry selects the adapter for a filesystem.
package directupload

import (
	"context"

	"github.com/rohits-web03/webfile/internal/models"
)

// Adapter is implemented by every direct-upload backend. Backend errors are
// returned as is and never retried here.
type Adapter interface {
	// PrepareSingle returns what a client needs to PUT the whole file at once.
	PrepareSingle(ctx context.Context, ev *UploadEvent) (SingleUpload, error)

	CreateMultipart(ctx context.Context, ev *UploadEvent) (MultipartUpload, error)

	// ListParts reports the parts the backend already accepted, for resuming.
	ListParts(ctx context.Context, uploadID, key string) ([]Part, error)

	SignPart(ctx context.Context, uploadID, key string, partNumber int32) (string, error)

	// CompleteMultipart forwards parts verbatim; ordering and contiguity are
	// validated by the backend.
	CompleteMultipart(ctx context.Context, uploadID, key string, parts []Part) error

	AbortMultipart(ctx context.Context, uploadID, key string) error
}

// UploadEvent is handed to pre-upload listeners, which may change Options,
// and then to the adapter.
type UploadEvent struct {
	// Configuration is nil for temporary uploads.
	Configuration *models.FilePropertyConfiguration
	File          models.File
	Options       Options
}

func NewUploadEvent(cfg *models.FilePropertyConfiguration, file models.File, contentType string) *UploadEvent {
	opts := Options{}
	if contentType != "" {
		opts[OptionContentType] = contentType
	}
	return &UploadEvent{Configuration: cfg, File: file, Options: opts}
}

type SingleUpload struct {
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	Filesystem string            `json:"fileSystem"`
	Key        string            `json:"key"`
	Headers    map[string]string `json:"headers"`
}

type MultipartUpload struct {
	UploadID   string `json:"uploadId"`
	Filesystem string `json:"fileSystem"`
	Key        string `json:"key"`
}

// Part field names follow the S3 API so clients can pass them through.
type Part struct {
	PartNumber int32  `json:"PartNumber"`
	ETag       string `json:"ETag"`
	Size       int64  `json:"Size,omitempty"`
}
