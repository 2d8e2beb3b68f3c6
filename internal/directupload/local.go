package directupload

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rohits-web03/webfile/internal/common"
)

const (
	HeaderExpiresAt = "x-expires-at"
	HeaderSignature = "x-signature"

	DefaultLocalExpires = 10 * time.Minute
	DefaultLocalMount   = "/upload/local"
)

// FieldSigner signs an ordered list of fields. *signer.Signer implements it.
type FieldSigner interface {
	Sign(fields ...string) (string, error)
}

type LocalConfig struct {
	Filesystem string
	// BaseURL is the public origin of this server, e.g. https://app.example.com.
	BaseURL  string
	Mount    string
	Expires  time.Duration
	Defaults Options
}

// LocalSignedAdapter points clients back at this server's local upload
// endpoint with an HMAC-signed, expiring envelope. Multipart is not supported.
type LocalSignedAdapter struct {
	cfg    LocalConfig
	signer FieldSigner
	now    func() time.Time
}

func NewLocalSignedAdapter(cfg LocalConfig, signer FieldSigner) *LocalSignedAdapter {
	if cfg.Expires <= 0 {
		cfg.Expires = DefaultLocalExpires
	}
	if cfg.Mount == "" {
		cfg.Mount = DefaultLocalMount
	}
	cfg.Mount = "/" + strings.Trim(cfg.Mount, "/")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.Defaults = cfg.Defaults.Clone()
	return &LocalSignedAdapter{cfg: cfg, signer: signer, now: time.Now}
}

// SignatureFields is the order shared by signer and verifier.
func SignatureFields(filesystem, key, expiresAt string) []string {
	return []string{filesystem, key, expiresAt}
}

// LocalUploadURL builds the endpoint URL for key on filesystem.
func LocalUploadURL(baseURL, mount, filesystem, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return baseURL + mount + "/" + url.PathEscape(filesystem) + "/" + strings.Join(segments, "/")
}

func (a *LocalSignedAdapter) PrepareSingle(ctx context.Context, ev *UploadEvent) (SingleUpload, error) {
	// the local filesystem root already scopes the key
	key := ev.File.Unwrap().Path
	expiresAt := strconv.FormatInt(a.now().Add(a.cfg.Expires).Unix(), 10)

	signature, err := a.signer.Sign(SignatureFields(a.cfg.Filesystem, key, expiresAt)...)
	if err != nil {
		return SingleUpload{}, fmt.Errorf("sign local upload: %w", err)
	}

	headers := Merge(a.cfg.Defaults, ev.Options).Headers()
	headers[HeaderExpiresAt] = expiresAt
	headers[HeaderSignature] = signature

	return SingleUpload{
		URL:        LocalUploadURL(a.cfg.BaseURL, a.cfg.Mount, a.cfg.Filesystem, key),
		Method:     http.MethodPut,
		Filesystem: a.cfg.Filesystem,
		Key:        key,
		Headers:    headers,
	}, nil
}

func (a *LocalSignedAdapter) CreateMultipart(ctx context.Context, ev *UploadEvent) (MultipartUpload, error) {
	return MultipartUpload{}, a.unsupported("create multipart")
}

func (a *LocalSignedAdapter) ListParts(ctx context.Context, uploadID, key string) ([]Part, error) {
	return nil, a.unsupported("list parts")
}

func (a *LocalSignedAdapter) SignPart(ctx context.Context, uploadID, key string, partNumber int32) (string, error) {
	return "", a.unsupported("sign part")
}

func (a *LocalSignedAdapter) CompleteMultipart(ctx context.Context, uploadID, key string, parts []Part) error {
	return a.unsupported("complete multipart")
}

func (a *LocalSignedAdapter) AbortMultipart(ctx context.Context, uploadID, key string) error {
	return a.unsupported("abort multipart")
}

func (a *LocalSignedAdapter) unsupported(op string) error {
	return fmt.Errorf("%w: %s on local filesystem %q", common.ErrNotImplemented, op, a.cfg.Filesystem)
}
