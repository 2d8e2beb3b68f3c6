package directupload

import (
	"sort"
	"strings"
)

// Option keys follow the S3 request parameter names.
const (
	OptionContentType        = "ContentType"
	OptionACL                = "ACL"
	OptionCacheControl       = "CacheControl"
	OptionContentDisposition = "ContentDisposition"
	OptionContentEncoding    = "ContentEncoding"
	OptionContentLanguage    = "ContentLanguage"
	OptionStorageClass       = "StorageClass"

	// MetadataPrefix marks user metadata, e.g. "Metadata-Owner".
	MetadataPrefix = "Metadata-"
)

var optionHeaders = map[string]string{
	OptionContentType:        "Content-Type",
	OptionACL:                "x-amz-acl",
	OptionCacheControl:       "Cache-Control",
	OptionContentDisposition: "Content-Disposition",
	OptionContentEncoding:    "Content-Encoding",
	OptionContentLanguage:    "Content-Language",
	OptionStorageClass:       "x-amz-storage-class",
}

// Options are upload parameters passed to the backend.
type Options map[string]string

// Merge returns defaults overlaid with overrides; overrides win on conflict.
func Merge(defaults, overrides Options) Options {
	out := make(Options, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func (o Options) Clone() Options {
	return Merge(nil, o)
}

// Metadata collects the Metadata- entries without their prefix.
func (o Options) Metadata() map[string]string {
	var md map[string]string
	for k, v := range o {
		name, ok := strings.CutPrefix(k, MetadataPrefix)
		if !ok || name == "" {
			continue
		}
		if md == nil {
			md = make(map[string]string)
		}
		md[strings.ToLower(name)] = v
	}
	return md
}

// Headers renders the options as HTTP request headers. Keys without a known
// header name are passed through unchanged.
func (o Options) Headers() map[string]string {
	out := make(map[string]string, len(o))
	for k, v := range o {
		if h, ok := optionHeaders[k]; ok {
			out[h] = v
			continue
		}
		if name, ok := strings.CutPrefix(k, MetadataPrefix); ok && name != "" {
			out["x-amz-meta-"+strings.ToLower(name)] = v
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeOptions restores the canonical spelling of option keys from
// case-insensitive sources such as config files.
func NormalizeOptions(in map[string]string) Options {
	out := make(Options, len(in))
	for k, v := range in {
		out[canonicalOption(k)] = v
	}
	return out
}

func canonicalOption(k string) string {
	for name := range optionHeaders {
		if strings.EqualFold(k, name) {
			return name
		}
	}
	if len(k) > len(MetadataPrefix) && strings.EqualFold(k[:len(MetadataPrefix)], MetadataPrefix) {
		return MetadataPrefix + k[len(MetadataPrefix):]
	}
	return k
}
