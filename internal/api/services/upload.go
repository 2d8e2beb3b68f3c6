package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/directupload"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/models"
	"github.com/rohits-web03/webfile/internal/utils"
)

// S3 allows part numbers 1 to 10000.
const maxPartNumber = 10000

// TargetDecrypter resolves an encrypted target. *target.Encryptor implements it.
type TargetDecrypter interface {
	Decrypt(token string) (models.FilePropertyConfiguration, error)
}

// AdapterProvider looks up the adapter of a filesystem. *directupload.Registry implements it.
type AdapterProvider interface {
	Get(filesystem string) (directupload.Adapter, error)
}

// URLResolver returns a URL under which a file can be fetched, or "" if there is none.
type URLResolver interface {
	PublicURL(ctx context.Context, f models.WebFile) (string, error)
}

// Listener may change ev.Options before the adapter sees them. Listeners run in
// registration order, so the last one to set a key wins.
type Listener func(ctx context.Context, ev *directupload.UploadEvent) error

type TargetRequest struct {
	Target           string `json:"target"`
	FileSystemName   string `json:"fileSystemName"`
	FileSystemPrefix string `json:"fileSystemPrefix"`
}

type PrepareRequest struct {
	TargetRequest
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type UploadRequest struct {
	TargetRequest
	Key      string `json:"key"`
	UploadID string `json:"uploadId"`
}

type SignPartRequest struct {
	UploadRequest
	PartNumber int32 `json:"partNumber"`
}

type CompleteRequest struct {
	UploadRequest
	Parts []directupload.Part `json:"parts"`
}

type ParamsResponse struct {
	directupload.SingleUpload
	// Path is the WebFile path to store on the owning entity.
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl,omitempty"`
}

type MultipartResponse struct {
	directupload.MultipartUpload
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl,omitempty"`
}

type SignPartResponse struct {
	URL string `json:"url"`
}

// UploadService coordinates direct uploads. It keeps no state between calls;
// multipart sessions live entirely in the storage backend.
type UploadService struct {
	targets   TargetDecrypter
	adapters  AdapterProvider
	urls      URLResolver
	listeners []Listener
	log       logging.Logger

	newPath func(prefix, filename string) (string, error)
}

func NewUploadService(targets TargetDecrypter, adapters AdapterProvider, urls URLResolver, log logging.Logger, listeners ...Listener) *UploadService {
	return &UploadService{
		targets:   targets,
		adapters:  adapters,
		urls:      urls,
		listeners: append([]Listener(nil), listeners...),
		log:       log,
		newPath:   utils.GenerateUploadPath,
	}
}

type resolvedTarget struct {
	cfg        *models.FilePropertyConfiguration
	filesystem string
	prefix     string
}

func (s *UploadService) resolve(req TargetRequest) (resolvedTarget, error) {
	if req.Target != "" {
		cfg, err := s.targets.Decrypt(req.Target)
		if err != nil {
			return resolvedTarget{}, err
		}
		return resolvedTarget{cfg: &cfg, filesystem: cfg.Filesystem, prefix: cfg.Prefix()}, nil
	}

	if req.FileSystemName == "" {
		return resolvedTarget{}, fmt.Errorf("%w: target or fileSystemName is required", common.ErrInvalidRequest)
	}
	prefix := strings.Trim(req.FileSystemPrefix, "/")
	if prefix != "" {
		if err := models.ValidatePath(prefix); err != nil {
			return resolvedTarget{}, fmt.Errorf("%w: fileSystemPrefix: %v", common.ErrInvalidRequest, err)
		}
	}
	return resolvedTarget{filesystem: req.FileSystemName, prefix: prefix}, nil
}

// prepare runs steps shared by single and multipart uploads: resolve the
// target, reserve a path, let listeners adjust options and pick the adapter.
func (s *UploadService) prepare(ctx context.Context, req PrepareRequest) (*directupload.UploadEvent, directupload.Adapter, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, nil, fmt.Errorf("%w: filename is required", common.ErrInvalidRequest)
	}

	t, err := s.resolve(req.TargetRequest)
	if err != nil {
		return nil, nil, err
	}

	adapter, err := s.adapters.Get(t.filesystem)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.newPath(t.prefix, req.Filename)
	if err != nil {
		return nil, nil, fmt.Errorf("generate upload path: %w", err)
	}

	var placeholder models.File
	if t.cfg != nil {
		placeholder = models.NewDirectlyUploadedWebFile(t.filesystem, p)
	} else {
		placeholder = models.NewTemporaryWebFile(t.filesystem, p)
	}

	ev := directupload.NewUploadEvent(t.cfg, placeholder, req.ContentType)
	for _, l := range s.listeners {
		if err := l(ctx, ev); err != nil {
			return nil, nil, fmt.Errorf("pre-upload listener: %w", err)
		}
	}
	return ev, adapter, nil
}

func (s *UploadService) publicURL(ctx context.Context, f models.WebFile) string {
	if s.urls == nil {
		return ""
	}
	u, err := s.urls.PublicURL(ctx, f)
	if err != nil {
		s.log.Warn(ctx, "public url unavailable", "file", f.String(), "error", err)
		return ""
	}
	return u
}

// Params prepares a single PUT upload.
func (s *UploadService) Params(ctx context.Context, req PrepareRequest) (ParamsResponse, error) {
	ev, adapter, err := s.prepare(ctx, req)
	if err != nil {
		return ParamsResponse{}, err
	}

	out, err := adapter.PrepareSingle(ctx, ev)
	if err != nil {
		return ParamsResponse{}, s.backendError(ctx, "prepare single", ev.File.Unwrap().Filesystem, err)
	}

	f := ev.File.Unwrap()
	s.log.Info(ctx, "direct upload prepared", "filesystem", out.Filesystem, "key", out.Key)
	return ParamsResponse{SingleUpload: out, Path: f.Path, PublicURL: s.publicURL(ctx, f)}, nil
}

// CreateMultipart starts a multipart session on the backend.
func (s *UploadService) CreateMultipart(ctx context.Context, req PrepareRequest) (MultipartResponse, error) {
	ev, adapter, err := s.prepare(ctx, req)
	if err != nil {
		return MultipartResponse{}, err
	}

	out, err := adapter.CreateMultipart(ctx, ev)
	if err != nil {
		return MultipartResponse{}, s.backendError(ctx, "create multipart", ev.File.Unwrap().Filesystem, err)
	}

	f := ev.File.Unwrap()
	s.log.Info(ctx, "multipart upload created", "filesystem", out.Filesystem, "key", out.Key, "upload_id", out.UploadID)
	return MultipartResponse{MultipartUpload: out, Path: f.Path, PublicURL: s.publicURL(ctx, f)}, nil
}

func (s *UploadService) session(req UploadRequest) (directupload.Adapter, string, error) {
	if req.UploadID == "" {
		return nil, "", fmt.Errorf("%w: uploadId is required", common.ErrInvalidRequest)
	}
	if err := models.ValidatePath(req.Key); err != nil {
		return nil, "", fmt.Errorf("%w: key: %v", common.ErrInvalidRequest, err)
	}
	t, err := s.resolve(req.TargetRequest)
	if err != nil {
		return nil, "", err
	}
	adapter, err := s.adapters.Get(t.filesystem)
	if err != nil {
		return nil, "", err
	}
	return adapter, t.filesystem, nil
}

func (s *UploadService) ListParts(ctx context.Context, req UploadRequest) ([]directupload.Part, error) {
	adapter, fs, err := s.session(req)
	if err != nil {
		return nil, err
	}
	parts, err := adapter.ListParts(ctx, req.UploadID, req.Key)
	if err != nil {
		return nil, s.backendError(ctx, "list parts", fs, err)
	}
	return parts, nil
}

func (s *UploadService) SignPart(ctx context.Context, req SignPartRequest) (SignPartResponse, error) {
	if req.PartNumber < 1 || req.PartNumber > maxPartNumber {
		return SignPartResponse{}, fmt.Errorf("%w: partNumber must be between 1 and %d", common.ErrInvalidRequest, maxPartNumber)
	}
	adapter, fs, err := s.session(req.UploadRequest)
	if err != nil {
		return SignPartResponse{}, err
	}
	u, err := adapter.SignPart(ctx, req.UploadID, req.Key, req.PartNumber)
	if err != nil {
		return SignPartResponse{}, s.backendError(ctx, "sign part", fs, err)
	}
	return SignPartResponse{URL: u}, nil
}

// CompleteMultipart forwards the part list as given, including an empty one.
func (s *UploadService) CompleteMultipart(ctx context.Context, req CompleteRequest) error {
	adapter, fs, err := s.session(req.UploadRequest)
	if err != nil {
		return err
	}
	parts := req.Parts
	if parts == nil {
		parts = []directupload.Part{}
	}
	if err := adapter.CompleteMultipart(ctx, req.UploadID, req.Key, parts); err != nil {
		return s.backendError(ctx, "complete multipart", fs, err)
	}
	s.log.Info(ctx, "multipart upload completed", "filesystem", fs, "key", req.Key, "parts", len(parts))
	return nil
}

func (s *UploadService) AbortMultipart(ctx context.Context, req UploadRequest) error {
	adapter, fs, err := s.session(req)
	if err != nil {
		return err
	}
	if err := adapter.AbortMultipart(ctx, req.UploadID, req.Key); err != nil {
		return s.backendError(ctx, "abort multipart", fs, err)
	}
	s.log.Info(ctx, "multipart upload aborted", "filesystem", fs, "key", req.Key)
	return nil
}

func (s *UploadService) backendError(ctx context.Context, op, filesystem string, err error) error {
	if !errors.Is(err, common.ErrNotImplemented) {
		s.log.Error(ctx, "direct upload backend failed", "operation", op, "filesystem", filesystem, "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
