package models

import (
	"fmt"
	"strings"
)

// FilePropertyConfiguration describes one file-bearing field of one entity type.
type FilePropertyConfiguration struct {
	EntityClass  string `json:"entityClass"`
	FileProperty string `json:"fileProperty"`
	PathProperty string `json:"pathProperty"`
	Filesystem   string `json:"fileSystem"`
	PathPrefix   string `json:"pathPrefix"`
}

func (c FilePropertyConfiguration) Validate() error {
	if c.EntityClass == "" || c.FileProperty == "" {
		return fmt.Errorf("entity class and file property are required")
	}
	if c.PathProperty == "" || c.PathProperty == c.FileProperty {
		return fmt.Errorf("%s.%s: path property must be set and differ from the file property", c.EntityClass, c.FileProperty)
	}
	if c.Filesystem == "" {
		return fmt.Errorf("%s.%s: filesystem is required", c.EntityClass, c.FileProperty)
	}
	if c.PathPrefix != "" {
		if err := ValidatePath(strings.Trim(c.PathPrefix, "/")); err != nil {
			return fmt.Errorf("%s.%s: prefix: %w", c.EntityClass, c.FileProperty, err)
		}
	}
	return nil
}

// Prefix returns the path prefix without surrounding slashes.
func (c FilePropertyConfiguration) Prefix() string {
	return strings.Trim(c.PathPrefix, "/")
}

// File builds the WebFile stored at p on this configuration's filesystem.
func (c FilePropertyConfiguration) File(p string) WebFile {
	return NewWebFile(c.Filesystem, p)
}

// Owns reports whether p lies below the configured prefix.
func (c FilePropertyConfiguration) Owns(p string) bool {
	if ValidatePath(p) != nil {
		return false
	}
	prefix := c.Prefix()
	return prefix == "" || strings.HasPrefix(p, prefix+"/")
}
