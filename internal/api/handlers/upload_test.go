package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohits-web03/webfile/internal/api/services"
	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/directupload"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/mapping"
	"github.com/rohits-web03/webfile/internal/models"
	"github.com/rohits-web03/webfile/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMultipart answers multipart calls for the "s3" filesystem.
type stubMultipart struct {
	directupload.Adapter
	completed []directupload.Part
	err       error
}

func (s *stubMultipart) CreateMultipart(_ context.Context, ev *directupload.UploadEvent) (directupload.MultipartUpload, error) {
	return directupload.MultipartUpload{UploadID: "up-1", Filesystem: "s3", Key: "bucket-prefix/" + ev.File.Unwrap().Path}, s.err
}

func (s *stubMultipart) ListParts(context.Context, string, string) ([]directupload.Part, error) {
	return []directupload.Part{{PartNumber: 1, ETag: `"abc"`}}, s.err
}

func (s *stubMultipart) SignPart(_ context.Context, uploadID, key string, n int32) (string, error) {
	return fmt.Sprintf("https://s3.example/%s?partNumber=%d&uploadId=%s", key, n, uploadID), s.err
}

func (s *stubMultipart) CompleteMultipart(_ context.Context, _, _ string, parts []directupload.Part) error {
	s.completed = parts
	return s.err
}

func (s *stubMultipart) AbortMultipart(context.Context, string, string) error {
	return s.err
}

type uploadFixture struct {
	mux       *http.ServeMux
	enc       *target.Encryptor
	multipart *stubMultipart
}

func newUploadFixture(t *testing.T, local directupload.Adapter) *uploadFixture {
	t.Helper()
	idx, err := mapping.NewIndex(mapping.Entry{Configuration: models.FilePropertyConfiguration{
		EntityClass: "Doc", FileProperty: "attachment", PathProperty: "attachmentPath", Filesystem: "public", PathPrefix: "docs",
	}})
	require.NoError(t, err)
	enc, err := target.NewEncryptor("handler-secret", idx)
	require.NoError(t, err)

	mp := &stubMultipart{}
	reg := directupload.NewRegistry(map[string]directupload.Adapter{"public": local, "s3": mp})
	svc := services.NewUploadService(enc, reg, nil, logging.Discard())
	h := NewUploadHandler(svc, logging.Discard())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/params", h.Params)
	mux.HandleFunc("POST /upload/multipart", h.CreateMultipart)
	mux.HandleFunc("GET /upload/multipart/parts", h.ListParts)
	mux.HandleFunc("POST /upload/multipart/parts", h.ListParts)
	mux.HandleFunc("POST /upload/multipart/part", h.SignPart)
	mux.HandleFunc("POST /upload/multipart/complete", h.CompleteMultipart)
	mux.HandleFunc("POST /upload/multipart/abort", h.AbortMultipart)
	return &uploadFixture{mux: mux, enc: enc, multipart: mp}
}

func (f *uploadFixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestUploadHandler_Params(t *testing.T) {
	f := newUploadFixture(t, testLocalAdapter(t))
	token, err := f.enc.Encrypt("Doc", "attachment")
	require.NoError(t, err)

	rec := f.do(http.MethodPost, "/upload/params", fmt.Sprintf(`{"target":%q,"filename":"report.pdf","contentType":"application/pdf"}`, token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	// forward slashes are escaped
	assert.Contains(t, rec.Body.String(), `"key":"docs\/`)

	var out services.ParamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "public", out.Filesystem)
	assert.Equal(t, http.MethodPut, out.Method)
	assert.True(t, strings.HasPrefix(out.Key, "docs/"))
	assert.True(t, strings.HasSuffix(out.Key, "/report.pdf"))
	assert.NotEmpty(t, out.Headers[directupload.HeaderSignature])
	assert.Equal(t, "application/pdf", out.Headers["Content-Type"])
}

func TestUploadHandler_Errors(t *testing.T) {
	f := newUploadFixture(t, testLocalAdapter(t))

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed json", "/upload/params", `{`, http.StatusBadRequest},
		{"missing filename", "/upload/params", `{"fileSystemName":"public"}`, http.StatusBadRequest},
		{"bad target", "/upload/params", `{"target":"nope","filename":"a"}`, http.StatusBadRequest},
		{"unknown filesystem", "/upload/params", `{"fileSystemName":"nowhere","filename":"a"}`, http.StatusInternalServerError},
		{"local multipart", "/upload/multipart", `{"fileSystemName":"public","filename":"a"}`, http.StatusInternalServerError},
		{"part out of range", "/upload/multipart/part", `{"fileSystemName":"s3","key":"k","uploadId":"u","partNumber":0}`, http.StatusBadRequest},
		{"missing upload id", "/upload/multipart/abort", `{"fileSystemName":"s3","key":"k"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var p struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.False(t, p.Success)
			assert.NotEmpty(t, p.Message)
		})
	}
}

func TestUploadHandler_MultipartFlow(t *testing.T) {
	f := newUploadFixture(t, testLocalAdapter(t))

	rec := f.do(http.MethodPost, "/upload/multipart", `{"fileSystemName":"s3","fileSystemPrefix":"tmp","filename":"big.iso"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created services.MultipartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "up-1", created.UploadID)
	assert.Equal(t, "bucket-prefix/"+created.Path, created.Key)

	session := fmt.Sprintf(`"fileSystemName":"s3","key":%q,"uploadId":"up-1"`, created.Key)

	rec = f.do(http.MethodPost, "/upload/multipart/part", `{`+session+`,"partNumber":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var signed services.SignPartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signed))
	assert.Contains(t, signed.URL, "partNumber=2")

	rec = f.do(http.MethodGet, "/upload/multipart/parts?fileSystemName=s3&uploadId=up-1&key="+created.Key, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[{"PartNumber":1,"ETag":"\"abc\""}]`, rec.Body.String())

	rec = f.do(http.MethodPost, "/upload/multipart/parts", `{`+session+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/upload/multipart/complete", `{`+session+`,"parts":[{"PartNumber":2,"ETag":"b"},{"PartNumber":1,"ETag":"a"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
	// forwarded verbatim, no reordering
	assert.Equal(t, []directupload.Part{{PartNumber: 2, ETag: "b"}, {PartNumber: 1, ETag: "a"}}, f.multipart.completed)

	rec = f.do(http.MethodPost, "/upload/multipart/abort", `{`+session+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
}

func TestUploadHandler_BackendFailure(t *testing.T) {
	f := newUploadFixture(t, testLocalAdapter(t))
	f.multipart.err = errors.New("s3: AccessDenied")

	rec := f.do(http.MethodPost, "/upload/multipart/abort", `{"fileSystemName":"s3","key":"k","uploadId":"u"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "AccessDenied")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusFor(nil))
	assert.Equal(t, http.StatusBadRequest, StatusFor(fmt.Errorf("x: %w", common.ErrInvalidToken)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(common.ErrInvalidRequest))
	assert.Equal(t, http.StatusForbidden, StatusFor(common.ErrInvalidSignature))
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusFor(fmt.Errorf("write: %w", &http.MaxBytesError{Limit: 4})))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(common.ErrAdapterNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(common.ErrNotImplemented))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("backend")))
}
