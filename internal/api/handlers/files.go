package handlers

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/models"
	"github.com/rohits-web03/webfile/internal/utils"
)

// FileReader opens stored files. *repositories.Filesystems implements it.
type FileReader interface {
	Open(ctx context.Context, file models.WebFile) (io.ReadCloser, error)
}

// inlineTypes render in a browser without running scripts.
var inlineTypes = map[string]bool{
	"application/pdf": true,
	"image/gif":       true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"text/plain":      true,
}

func inlineSafe(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && inlineTypes[mediaType]
}

// ServeFile godoc
// @Summary Download a stored file
// @Description Only types in a small allowlist render inline; everything else is sent as an attachment.
// @Tags Files
// @Param filesystem path string true "Filesystem name"
// @Param path path string true "File path"
// @Success 200
// @Failure 404 {object} utils.Payload
// @Router /files/{filesystem}/{path} [get]
func ServeFile(storage FileReader, log logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file := models.NewWebFile(r.PathValue("filesystem"), r.PathValue("path"))
		if err := models.ValidatePath(file.Path); err != nil {
			utils.ErrorResponse(w, http.StatusNotFound, "File not found")
			return
		}

		rc, err := storage.Open(r.Context(), file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, common.ErrFilesystemNotFound) {
				utils.ErrorResponse(w, http.StatusNotFound, "File not found")
				return
			}
			log.Error(r.Context(), "open file failed", "file", file.String(), "error", err)
			utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to read file")
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(path.Ext(file.Path))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "sandbox")
		if !inlineSafe(ct) {
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name()}))
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, rc); err != nil {
			log.Warn(r.Context(), "download interrupted", "file", file.String(), "error", err)
		}
	}
}
