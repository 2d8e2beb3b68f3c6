package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentEntity         = "Document"
	DocumentAttachmentProp = "attachment"
)

// Document is the host entity shipped with the server. Its attachment is stored
// as a plain path; the filesystem comes from the file property configuration.
type Document struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string    `json:"title" gorm:"not null"`
	AttachmentPath string    `json:"attachmentPath" gorm:"not null"` // path on the configured filesystem
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Attachment resolves the attachment through its configuration.
func (d *Document) Attachment(cfg FilePropertyConfiguration) (WebFile, bool) {
	if d.AttachmentPath == "" {
		return WebFile{}, false
	}
	return cfg.File(d.AttachmentPath), true
}

// SetAttachment stores the path of f.
func (d *Document) SetAttachment(f File) {
	d.AttachmentPath = f.Unwrap().Path
}
