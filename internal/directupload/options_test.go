package directupload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_CallerWins(t *testing.T) {
	defaults := Options{OptionACL: "private", OptionContentType: "application/octet-stream"}
	overrides := Options{OptionContentType: "image/png"}

	got := Merge(defaults, overrides)
	assert.Equal(t, Options{OptionACL: "private", OptionContentType: "image/png"}, got)
	assert.Equal(t, "application/octet-stream", defaults[OptionContentType], "inputs untouched")
}

func TestOptions_Headers(t *testing.T) {
	o := Options{
		OptionContentType:           "text/plain",
		OptionACL:                   "public-read",
		MetadataPrefix + "Uploader": "alice",
		"X-Custom":                  "1",
	}
	assert.Equal(t, map[string]string{
		"Content-Type":        "text/plain",
		"x-amz-acl":           "public-read",
		"x-amz-meta-uploader": "alice",
		"X-Custom":            "1",
	}, o.Headers())
}

func TestOptions_Metadata(t *testing.T) {
	assert.Nil(t, Options{OptionACL: "x"}.Metadata())
	assert.Equal(t, map[string]string{"a": "1"}, Options{"Metadata-A": "1", "Metadata-": "skip"}.Metadata())
}

func TestOptions_Keys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Options{"b": "", "a": ""}.Keys())
}

func TestNewUploadEvent_ContentTypeOnly(t *testing.T) {
	assert.Equal(t, Options{OptionContentType: "a/b"}, NewUploadEvent(nil, nil, "a/b").Options)
	assert.Empty(t, NewUploadEvent(nil, nil, "").Options)
}

func TestNormalizeOptions(t *testing.T) {
	got := NormalizeOptions(map[string]string{
		"acl":            "public-read",
		"cachecontrol":   "no-cache",
		"metadata-owner": "bob",
		"x-other":        "1",
	})
	assert.Equal(t, Options{
		OptionACL:          "public-read",
		OptionCacheControl: "no-cache",
		"Metadata-owner":   "bob",
		"x-other":          "1",
	}, got)
}
