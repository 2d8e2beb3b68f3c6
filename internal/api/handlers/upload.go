package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohits-web03/webfile/internal/api/services"
	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/utils"
)

const maxRequestBody = 1 << 20 // 1 MB of JSON is plenty for a part list

type UploadHandler struct {
	svc *services.UploadService
	log logging.Logger
}

func NewUploadHandler(svc *services.UploadService, log logging.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, log: log}
}

// Params godoc
// @Summary Prepare a single direct upload
// @Description Returns a URL and headers the client uses to PUT the file straight to storage
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body services.PrepareRequest true "Upload target and file name"
// @Success 200 {object} services.ParamsResponse
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /upload/params [post]
func (h *UploadHandler) Params(w http.ResponseWriter, r *http.Request) {
	var req services.PrepareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.Params(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, out)
}

// CreateMultipart godoc
// @Summary Start a multipart direct upload
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body services.PrepareRequest true "Upload target and file name"
// @Success 200 {object} services.MultipartResponse
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /upload/multipart [post]
func (h *UploadHandler) CreateMultipart(w http.ResponseWriter, r *http.Request) {
	var req services.PrepareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.CreateMultipart(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, out)
}

// ListParts godoc
// @Summary List the parts already uploaded
// @Description GET reads target, fileSystemName, key and uploadId from the query string
// @Tags Upload
// @Produce json
// @Param request body services.UploadRequest false "Upload session"
// @Success 200 {array} directupload.Part
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /upload/multipart/parts [post]
func (h *UploadHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	var req services.UploadRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req = services.UploadRequest{
			TargetRequest: services.TargetRequest{
				Target:         q.Get("target"),
				FileSystemName: q.Get("fileSystemName"),
			},
			Key:      q.Get("key"),
			UploadID: q.Get("uploadId"),
		}
	} else if !decodeBody(w, r, &req) {
		return
	}

	parts, err := h.svc.ListParts(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, parts)
}

// SignPart godoc
// @Summary Presign the upload of one part
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body services.SignPartRequest true "Upload session and part number"
// @Success 200 {object} services.SignPartResponse
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /upload/multipart/part [post]
func (h *UploadHandler) SignPart(w http.ResponseWriter, r *http.Request) {
	var req services.SignPartRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.svc.SignPart(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, out)
}

// CompleteMultipart godoc
// @Summary Complete a multipart upload
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body services.CompleteRequest true "Upload session and parts"
// @Success 200 {object} object
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /upload/multipart/complete [post]
func (h *UploadHandler) CompleteMultipart(w http.ResponseWriter, r *http.Request) {
	var req services.CompleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.CompleteMultipart(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, struct{}{})
}

// AbortMultipart godoc
// @Summary Abort a multipart upload
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body services.UploadRequest true "Upload session"
// @Success 200 {object} object
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /upload/multipart/abort [post]
func (h *UploadHandler) AbortMultipart(w http.ResponseWriter, r *http.Request) {
	var req services.UploadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.AbortMultipart(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, struct{}{})
}

func (h *UploadHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "direct upload request failed", "path", r.URL.Path, "error", err)
		utils.ErrorResponse(w, status, "Direct upload failed")
		return
	}
	utils.ErrorResponse(w, status, err.Error())
}

// StatusFor maps direct-upload errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrInvalidRequest), errors.Is(err, common.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidSignature):
		return http.StatusForbidden
	case errors.As(err, new(*http.MaxBytesError)):
		return http.StatusRequestEntityTooLarge
	default:
		// missing configuration, unsupported operations and backend failures
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
