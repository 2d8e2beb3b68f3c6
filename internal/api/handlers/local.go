package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/directupload"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/models"
)

// FieldVerifier checks a signature over ordered fields. *signer.Signer implements it.
type FieldVerifier interface {
	Verify(signature string, fields ...string) bool
}

// FileWriter stores uploaded bytes. *repositories.Filesystems implements it.
type FileWriter interface {
	Write(ctx context.Context, file models.WebFile, r io.Reader) (int64, error)
}

// LocalUploadHandler accepts the bytes of uploads prepared by the local signed
// adapter. Responses carry no body; the status code is the only signal.
type LocalUploadHandler struct {
	verifier FieldVerifier
	storage  FileWriter
	maxSize  int64
	log      logging.Logger
	now      func() time.Time
}

// NewLocalUploadHandler creates the handler. maxSize <= 0 disables the body limit.
func NewLocalUploadHandler(verifier FieldVerifier, storage FileWriter, maxSize int64, log logging.Logger) *LocalUploadHandler {
	return &LocalUploadHandler{verifier: verifier, storage: storage, maxSize: maxSize, log: log, now: time.Now}
}

// ServeHTTP godoc
// @Summary Receive a locally signed upload
// @Description Body is the raw file. Bad and expired signatures both yield 403.
// @Tags Upload
// @Accept octet-stream
// @Param filesystem path string true "Filesystem name"
// @Param path path string true "File path"
// @Param x-expires-at header string true "Unix expiry timestamp"
// @Param x-signature header string true "HMAC signature"
// @Success 200
// @Failure 403
// @Failure 413
// @Failure 500
// @Router /upload/local/{filesystem}/{path} [put]
func (h *LocalUploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, err := h.authorize(r)
	if err != nil {
		h.log.Warn(r.Context(), "local upload rejected", "file", file.String(), "error", err)
		w.WriteHeader(StatusFor(err))
		return
	}

	body := io.Reader(r.Body)
	if h.maxSize > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxSize)
	}

	n, err := h.storage.Write(r.Context(), file, body)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error(r.Context(), "local upload failed", "file", file.String(), "error", err)
		}
		w.WriteHeader(status)
		return
	}

	h.log.Info(r.Context(), "local upload stored", "file", file.String(), "bytes", n)
	w.WriteHeader(http.StatusOK)
}

// authorize checks the signature first, then the expiry. Both failures wrap
// common.ErrInvalidSignature so callers cannot tell them apart.
func (h *LocalUploadHandler) authorize(r *http.Request) (models.WebFile, error) {
	file := models.NewWebFile(r.PathValue("filesystem"), r.PathValue("path"))
	expiresAt := r.Header.Get(directupload.HeaderExpiresAt)
	signature := r.Header.Get(directupload.HeaderSignature)

	if !h.verifier.Verify(signature, directupload.SignatureFields(file.Filesystem, file.Path, expiresAt)...) {
		return file, fmt.Errorf("signature mismatch: %w", common.ErrInvalidSignature)
	}
	exp, err := strconv.ParseInt(expiresAt, 10, 64)
	if err != nil {
		return file, fmt.Errorf("malformed expiry %q: %w", expiresAt, common.ErrInvalidSignature)
	}
	if h.now().Unix() > exp {
		return file, fmt.Errorf("expired at %d: %w", exp, common.ErrInvalidSignature)
	}
	return file, nil
}
