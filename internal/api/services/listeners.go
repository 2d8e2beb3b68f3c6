package services

import (
	"context"

	"github.com/rohits-web03/webfile/internal/directupload"
)

// TagEntityMetadata records the owning entity and property as object
// metadata on targeted uploads. Temporary uploads are left untouched.
func TagEntityMetadata(_ context.Context, ev *directupload.UploadEvent) error {
	if ev.Configuration == nil {
		return nil
	}
	ev.Options[directupload.MetadataPrefix+"entity"] = ev.Configuration.EntityClass
	ev.Options[directupload.MetadataPrefix+"property"] = ev.Configuration.FileProperty
	return nil
}
