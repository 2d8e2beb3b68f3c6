package services

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/rohits-web03/webfile/internal/models"
)

// DownloadSigner issues a temporary download URL. *repositories.S3Filesystem implements it.
type DownloadSigner interface {
	URL(ctx context.Context, p string) (string, error)
}

// URLSource describes how files of one filesystem are reachable. BaseURL takes
// precedence over Signer. KeyPrefix is prepended to the path under BaseURL.
type URLSource struct {
	BaseURL   string
	KeyPrefix string
	Signer    DownloadSigner
}

type PublicURLs struct {
	sources map[string]URLSource
}

func NewPublicURLs(sources map[string]URLSource) *PublicURLs {
	cp := make(map[string]URLSource, len(sources))
	for k, v := range sources {
		cp[k] = v
	}
	return &PublicURLs{sources: cp}
}

func (u *PublicURLs) PublicURL(ctx context.Context, f models.WebFile) (string, error) {
	src, ok := u.sources[f.Filesystem]
	if !ok {
		return "", nil
	}
	if src.BaseURL != "" {
		return joinURL(src.BaseURL, path.Join(src.KeyPrefix, f.Path)), nil
	}
	if src.Signer != nil {
		return src.Signer.URL(ctx, f.Path)
	}
	return "", nil
}

func joinURL(base, p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}
