package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/models"
	"github.com/rohits-web03/webfile/internal/utils"
	"gorm.io/gorm"
)

// TargetIssuer issues encrypted targets. *target.Encryptor implements it.
type TargetIssuer interface {
	Encrypt(entityClass, property string) (string, error)
}

// FileChecker reports whether a file was stored. *repositories.Filesystems implements it.
type FileChecker interface {
	Exists(ctx context.Context, file models.WebFile) (bool, error)
}

// PublicURLResolver is satisfied by *services.PublicURLs.
type PublicURLResolver interface {
	PublicURL(ctx context.Context, f models.WebFile) (string, error)
}

type DocumentHandler struct {
	db      *gorm.DB
	cfg     models.FilePropertyConfiguration
	targets TargetIssuer
	files   FileChecker
	urls    PublicURLResolver
	log     logging.Logger
}

func NewDocumentHandler(db *gorm.DB, cfg models.FilePropertyConfiguration, targets TargetIssuer, files FileChecker, urls PublicURLResolver, log logging.Logger) *DocumentHandler {
	return &DocumentHandler{db: db, cfg: cfg, targets: targets, files: files, urls: urls, log: log}
}

type CreateDocumentRequest struct {
	Title      string `json:"title"`
	Attachment string `json:"attachment"`
}

type DocumentView struct {
	models.Document
	AttachmentFile *models.WebFile `json:"attachment,omitempty"`
	PublicURL      string          `json:"publicUrl,omitempty"`
}

// Target godoc
// @Summary Get the upload target for document attachments
// @Description The token is passed as "target" to the direct upload endpoints
// @Tags Documents
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /api/v1/documents/target [get]
func (h *DocumentHandler) Target(w http.ResponseWriter, r *http.Request) {
	token, err := h.targets.Encrypt(h.cfg.EntityClass, h.cfg.FileProperty)
	if err != nil {
		h.log.Error(r.Context(), "encrypt target failed", "error", err)
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue upload target")
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Upload target issued",
		Data:    map[string]string{"target": token},
	})
}

// Create godoc
// @Summary Create a document from a directly uploaded attachment
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body CreateDocumentRequest true "Title and attachment path"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /api/v1/documents [post]
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !h.cfg.Owns(req.Attachment) {
		utils.ErrorResponse(w, http.StatusBadRequest, "Attachment is not a valid upload for documents")
		return
	}

	file := h.cfg.File(req.Attachment)
	ok, err := h.files.Exists(r.Context(), file)
	if err != nil {
		h.log.Error(r.Context(), "check attachment failed", "file", file.String(), "error", err)
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify attachment")
		return
	}
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Attachment has not been uploaded")
		return
	}

	doc := models.Document{Title: req.Title}
	doc.SetAttachment(file)
	if err := h.db.WithContext(r.Context()).Create(&doc).Error; err != nil {
		h.log.Error(r.Context(), "create document failed", "error", err)
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create document")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Document created",
		Data:    h.view(r.Context(), doc),
	})
}

// Get godoc
// @Summary Get a document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/documents/{id} [get]
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	var doc models.Document
	if err := h.db.WithContext(r.Context()).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorResponse(w, http.StatusNotFound, "Document not found")
			return
		}
		h.log.Error(r.Context(), "load document failed", "id", id, "error", err)
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to load document")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Document fetched",
		Data:    h.view(r.Context(), doc),
	})
}

func (h *DocumentHandler) view(ctx context.Context, doc models.Document) DocumentView {
	v := DocumentView{Document: doc}
	f, ok := doc.Attachment(h.cfg)
	if !ok {
		return v
	}
	v.AttachmentFile = &f
	if h.urls != nil {
		u, err := h.urls.PublicURL(ctx, f)
		if err != nil {
			h.log.Warn(ctx, "public url unavailable", "file", f.String(), "error", err)
		}
		v.PublicURL = u
	}
	return v
}
