package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/directupload"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/mapping"
	"github.com/rohits-web03/webfile/internal/models"
	"github.com/rohits-web03/webfile/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	events   []*directupload.UploadEvent
	parts    []directupload.Part
	complete [][]directupload.Part
	aborted  []string
	signed   []int32
	err      error
}

func (f *fakeAdapter) PrepareSingle(_ context.Context, ev *directupload.UploadEvent) (directupload.SingleUpload, error) {
	f.events = append(f.events, ev)
	if f.err != nil {
		return directupload.SingleUpload{}, f.err
	}
	wf := ev.File.Unwrap()
	return directupload.SingleUpload{
		URL:        "https://bucket.example/" + wf.Path,
		Method:     "PUT",
		Filesystem: wf.Filesystem,
		Key:        wf.Path,
		Headers:    ev.Options.Headers(),
	}, nil
}

func (f *fakeAdapter) CreateMultipart(_ context.Context, ev *directupload.UploadEvent) (directupload.MultipartUpload, error) {
	f.events = append(f.events, ev)
	if f.err != nil {
		return directupload.MultipartUpload{}, f.err
	}
	wf := ev.File.Unwrap()
	return directupload.MultipartUpload{UploadID: "upload-1", Filesystem: wf.Filesystem, Key: wf.Path}, nil
}

func (f *fakeAdapter) ListParts(context.Context, string, string) ([]directupload.Part, error) {
	return f.parts, f.err
}

func (f *fakeAdapter) SignPart(_ context.Context, uploadID, key string, n int32) (string, error) {
	f.signed = append(f.signed, n)
	return "https://bucket.example/" + key + "?uploadId=" + uploadID, f.err
}

func (f *fakeAdapter) CompleteMultipart(_ context.Context, _, _ string, parts []directupload.Part) error {
	f.complete = append(f.complete, parts)
	return f.err
}

func (f *fakeAdapter) AbortMultipart(_ context.Context, uploadID, _ string) error {
	f.aborted = append(f.aborted, uploadID)
	return f.err
}

var docConfig = models.FilePropertyConfiguration{
	EntityClass:  "Doc",
	FileProperty: "attachment",
	PathProperty: "attachmentPath",
	Filesystem:   "public",
	PathPrefix:   "docs",
}

func newTestService(t *testing.T, adapter directupload.Adapter, urls URLResolver, listeners ...Listener) (*UploadService, *target.Encryptor) {
	t.Helper()
	idx, err := mapping.NewIndex(mapping.Entry{Configuration: docConfig})
	require.NoError(t, err)
	enc, err := target.NewEncryptor("test-secret", idx)
	require.NoError(t, err)
	reg := directupload.NewRegistry(map[string]directupload.Adapter{"public": adapter})
	return NewUploadService(enc, reg, urls, logging.Discard(), listeners...), enc
}

var layout = regexp.MustCompile(`^docs/[0-9a-f]{3}/[0-9a-f]{3}/[0-9a-f]{3}/[0-9a-f]{23}/report\.pdf$`)

func TestParams_WithTarget(t *testing.T) {
	a := &fakeAdapter{}
	svc, enc := newTestService(t, a, nil)
	token, err := enc.Encrypt("Doc", "attachment")
	require.NoError(t, err)

	out, err := svc.Params(context.Background(), PrepareRequest{
		TargetRequest: TargetRequest{Target: token},
		Filename:      "report.pdf",
		ContentType:   "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "public", out.Filesystem)
	assert.Equal(t, "PUT", out.Method)
	assert.Regexp(t, layout, out.Key)
	assert.Equal(t, out.Key, out.Path)
	assert.Equal(t, "application/pdf", out.Headers["Content-Type"])
	assert.Empty(t, out.PublicURL)

	require.Len(t, a.events, 1)
	ev := a.events[0]
	require.NotNil(t, ev.Configuration)
	assert.Equal(t, docConfig, *ev.Configuration)
	assert.IsType(t, models.DirectlyUploadedWebFile{}, ev.File)
}

func TestParams_Temporary(t *testing.T) {
	a := &fakeAdapter{}
	svc, _ := newTestService(t, a, nil)

	out, err := svc.Params(context.Background(), PrepareRequest{
		TargetRequest: TargetRequest{FileSystemName: "public", FileSystemPrefix: "/tmp/"},
		Filename:      "a b.txt",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^tmp/[0-9a-f]{3}/[0-9a-f]{3}/[0-9a-f]{3}/[0-9a-f]{23}/a-b\.txt$`, out.Key)

	require.Len(t, a.events, 1)
	assert.Nil(t, a.events[0].Configuration)
	assert.IsType(t, models.TemporaryWebFile{}, a.events[0].File)
	_, hasType := a.events[0].Options[directupload.OptionContentType]
	assert.False(t, hasType)
}

func TestParams_UniquePaths(t *testing.T) {
	a := &fakeAdapter{}
	svc, _ := newTestService(t, a, nil)
	req := PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "same.txt"}

	first, err := svc.Params(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Params(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
}

func TestParams_InvalidRequests(t *testing.T) {
	svc, _ := newTestService(t, &fakeAdapter{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  PrepareRequest
		want error
	}{
		{"missing filename", PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}}, common.ErrInvalidRequest},
		{"no target", PrepareRequest{Filename: "a"}, common.ErrInvalidRequest},
		{"escaping prefix", PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public", FileSystemPrefix: "a/../.."}, Filename: "a"}, common.ErrInvalidRequest},
		{"bad token", PrepareRequest{TargetRequest: TargetRequest{Target: "garbage"}, Filename: "a"}, common.ErrInvalidToken},
		{"unknown filesystem", PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "private"}, Filename: "a"}, common.ErrAdapterNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Params(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParams_TargetForUnregisteredFilesystem(t *testing.T) {
	idx, err := mapping.NewIndex(mapping.Entry{Configuration: docConfig})
	require.NoError(t, err)
	enc, err := target.NewEncryptor("test-secret", idx)
	require.NoError(t, err)
	svc := NewUploadService(enc, directupload.NewRegistry(nil), nil, logging.Discard())

	token, err := enc.Encrypt("Doc", "attachment")
	require.NoError(t, err)
	_, err = svc.Params(context.Background(), PrepareRequest{TargetRequest: TargetRequest{Target: token}, Filename: "x.pdf"})
	assert.ErrorIs(t, err, common.ErrAdapterNotFound)
}

func TestParams_ListenersRunInOrder(t *testing.T) {
	a := &fakeAdapter{}
	var order []string
	first := func(_ context.Context, ev *directupload.UploadEvent) error {
		order = append(order, "first")
		ev.Options[directupload.OptionACL] = "private"
		ev.Options[directupload.OptionCacheControl] = "no-cache"
		return nil
	}
	second := func(_ context.Context, ev *directupload.UploadEvent) error {
		order = append(order, "second")
		ev.Options[directupload.OptionACL] = "public-read"
		return nil
	}
	svc, _ := newTestService(t, a, nil, first, second)

	out, err := svc.Params(context.Background(), PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "public-read", out.Headers["x-amz-acl"])
	assert.Equal(t, "no-cache", out.Headers["Cache-Control"])
}

func TestParams_ListenerError(t *testing.T) {
	a := &fakeAdapter{}
	boom := errors.New("boom")
	svc, _ := newTestService(t, a, nil, func(context.Context, *directupload.UploadEvent) error { return boom })

	_, err := svc.Params(context.Background(), PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "a"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, a.events)
}

func TestParams_PublicURL(t *testing.T) {
	urls := NewPublicURLs(map[string]URLSource{"public": {BaseURL: "https://cdn.example/files/"}})
	svc, _ := newTestService(t, &fakeAdapter{}, urls)

	out, err := svc.Params(context.Background(), PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/files/"+out.Path, out.PublicURL)
}

func TestCreateMultipart(t *testing.T) {
	a := &fakeAdapter{}
	svc, _ := newTestService(t, a, nil)

	out, err := svc.CreateMultipart(context.Background(), PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "big.bin"})
	require.NoError(t, err)
	assert.Equal(t, "upload-1", out.UploadID)
	assert.Equal(t, "public", out.Filesystem)
	assert.Equal(t, out.Key, out.Path)
}

func TestBackendErrorPropagates(t *testing.T) {
	a := &fakeAdapter{err: common.ErrNotImplemented}
	svc, _ := newTestService(t, a, nil)

	_, err := svc.CreateMultipart(context.Background(), PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "a"})
	assert.ErrorIs(t, err, common.ErrNotImplemented)
}

func TestSessionOperations(t *testing.T) {
	a := &fakeAdapter{parts: []directupload.Part{{PartNumber: 1, ETag: `"e1"`, Size: 5}}}
	svc, _ := newTestService(t, a, nil)
	ctx := context.Background()
	base := UploadRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Key: "k/file.bin", UploadID: "u1"}

	parts, err := svc.ListParts(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, a.parts, parts)

	signed, err := svc.SignPart(ctx, SignPartRequest{UploadRequest: base, PartNumber: 3})
	require.NoError(t, err)
	assert.Contains(t, signed.URL, "uploadId=u1")
	assert.Equal(t, []int32{3}, a.signed)

	require.NoError(t, svc.CompleteMultipart(ctx, CompleteRequest{UploadRequest: base}))
	require.Len(t, a.complete, 1)
	assert.NotNil(t, a.complete[0])
	assert.Empty(t, a.complete[0])

	require.NoError(t, svc.AbortMultipart(ctx, base))
	assert.Equal(t, []string{"u1"}, a.aborted)
}

func TestSessionOperations_Validation(t *testing.T) {
	svc, _ := newTestService(t, &fakeAdapter{}, nil)
	ctx := context.Background()
	ok := UploadRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Key: "k", UploadID: "u"}

	noID := ok
	noID.UploadID = ""
	_, err := svc.ListParts(ctx, noID)
	assert.ErrorIs(t, err, common.ErrInvalidRequest)

	badKey := ok
	badKey.Key = "../etc/passwd"
	assert.ErrorIs(t, svc.AbortMultipart(ctx, badKey), common.ErrInvalidRequest)

	for _, n := range []int32{0, -1, 10001} {
		_, err := svc.SignPart(ctx, SignPartRequest{UploadRequest: ok, PartNumber: n})
		assert.ErrorIs(t, err, common.ErrInvalidRequest, "part %d", n)
	}
}

func TestTagEntityMetadata(t *testing.T) {
	a := &fakeAdapter{}
	svc, enc := newTestService(t, a, nil, TagEntityMetadata)
	token, err := enc.Encrypt("Doc", "attachment")
	require.NoError(t, err)
	ctx := context.Background()

	out, err := svc.Params(ctx, PrepareRequest{TargetRequest: TargetRequest{Target: token}, Filename: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Doc", out.Headers["x-amz-meta-entity"])
	assert.Equal(t, "attachment", out.Headers["x-amz-meta-property"])

	out, err = svc.Params(ctx, PrepareRequest{TargetRequest: TargetRequest{FileSystemName: "public"}, Filename: "a.pdf"})
	require.NoError(t, err)
	assert.NotContains(t, out.Headers, "x-amz-meta-entity")
}
