package directupload

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultPresignExpires is the lifetime of every presigned URL unless configured otherwise.
const DefaultPresignExpires = time.Hour

// MultipartAPI is the subset of *s3.Client used for multipart orchestration.
type MultipartAPI interface {
	CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	ListParts(ctx context.Context, in *s3.ListPartsInput, optFns ...func(*s3.Options)) (*s3.ListPartsOutput, error)
	CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// Presigner is the subset of *s3.PresignClient used to sign client requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignUploadPart(ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type ObjectStoreConfig struct {
	Filesystem string
	Bucket     string
	// Prefix is prepended to every WebFile path to form the object key.
	Prefix   string
	Expires  time.Duration
	Defaults Options
}

// ObjectStoreAdapter hands out presigned S3 requests.
type ObjectStoreAdapter struct {
	cfg       ObjectStoreConfig
	api       MultipartAPI
	presigner Presigner
}

func NewObjectStoreAdapter(cfg ObjectStoreConfig, api MultipartAPI, presigner Presigner) (*ObjectStoreAdapter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store %q: bucket is required", cfg.Filesystem)
	}
	if cfg.Expires <= 0 {
		cfg.Expires = DefaultPresignExpires
	}
	cfg.Defaults = cfg.Defaults.Clone()
	return &ObjectStoreAdapter{cfg: cfg, api: api, presigner: presigner}, nil
}

// NewS3ObjectStoreAdapter wires the adapter to a real S3 client.
func NewS3ObjectStoreAdapter(cfg ObjectStoreConfig, client *s3.Client) (*ObjectStoreAdapter, error) {
	return NewObjectStoreAdapter(cfg, client, s3.NewPresignClient(client))
}

func (a *ObjectStoreAdapter) key(ev *UploadEvent) string {
	p := ev.File.Unwrap().Path
	if a.cfg.Prefix == "" {
		return p
	}
	return path.Join(a.cfg.Prefix, p)
}

func (a *ObjectStoreAdapter) PrepareSingle(ctx context.Context, ev *UploadEvent) (SingleUpload, error) {
	key := a.key(ev)
	opts := Merge(a.cfg.Defaults, ev.Options)

	in := &s3.PutObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
	}
	p := objectParamsFrom(opts)
	in.ContentType = p.contentType
	in.ACL = p.acl
	in.CacheControl = p.cacheControl
	in.ContentDisposition = p.contentDisposition
	in.ContentEncoding = p.contentEncoding
	in.ContentLanguage = p.contentLanguage
	in.StorageClass = p.storageClass
	in.Metadata = p.metadata

	req, err := a.presigner.PresignPutObject(ctx, in, s3.WithPresignExpires(a.cfg.Expires))
	if err != nil {
		return SingleUpload{}, err
	}

	return SingleUpload{
		URL:        req.URL,
		Method:     req.Method,
		Filesystem: a.cfg.Filesystem,
		Key:        key,
		Headers:    signedHeaders(req.SignedHeader),
	}, nil
}

func (a *ObjectStoreAdapter) CreateMultipart(ctx context.Context, ev *UploadEvent) (MultipartUpload, error) {
	key := a.key(ev)
	opts := Merge(a.cfg.Defaults, ev.Options)

	in := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
	}
	p := objectParamsFrom(opts)
	in.ContentType = p.contentType
	in.ACL = p.acl
	in.CacheControl = p.cacheControl
	in.ContentDisposition = p.contentDisposition
	in.ContentEncoding = p.contentEncoding
	in.ContentLanguage = p.contentLanguage
	in.StorageClass = p.storageClass
	in.Metadata = p.metadata

	out, err := a.api.CreateMultipartUpload(ctx, in)
	if err != nil {
		return MultipartUpload{}, err
	}

	return MultipartUpload{
		UploadID:   aws.ToString(out.UploadId),
		Filesystem: a.cfg.Filesystem,
		Key:        key,
	}, nil
}

func (a *ObjectStoreAdapter) ListParts(ctx context.Context, uploadID, key string) ([]Part, error) {
	parts := []Part{}
	var marker *string
	for {
		out, err := a.api.ListParts(ctx, &s3.ListPartsInput{
			Bucket:           aws.String(a.cfg.Bucket),
			Key:              aws.String(key),
			UploadId:         aws.String(uploadID),
			PartNumberMarker: marker,
		})
		if err != nil {
			return nil, err
		}
		for _, p := range out.Parts {
			parts = append(parts, Part{
				PartNumber: aws.ToInt32(p.PartNumber),
				ETag:       aws.ToString(p.ETag),
				Size:       aws.ToInt64(p.Size),
			})
		}
		if !aws.ToBool(out.IsTruncated) || aws.ToString(out.NextPartNumberMarker) == "" {
			return parts, nil
		}
		marker = out.NextPartNumberMarker
	}
}

func (a *ObjectStoreAdapter) SignPart(ctx context.Context, uploadID, key string, partNumber int32) (string, error) {
	req, err := a.presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(a.cfg.Bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
	}, s3.WithPresignExpires(a.cfg.Expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (a *ObjectStoreAdapter) CompleteMultipart(ctx context.Context, uploadID, key string, parts []Part) error {
	completed := make([]s3types.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, s3types.CompletedPart{
			ETag:       aws.String(p.ETag),
			PartNumber: aws.Int32(p.PartNumber),
		})
	}

	_, err := a.api.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(a.cfg.Bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &s3types.CompletedMultipartUpload{Parts: completed},
	})
	return err
}

func (a *ObjectStoreAdapter) AbortMultipart(ctx context.Context, uploadID, key string) error {
	_, err := a.api.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(a.cfg.Bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	return err
}

// objectParams holds the options understood by PutObject and CreateMultipartUpload.
type objectParams struct {
	contentType        *string
	acl                s3types.ObjectCannedACL
	cacheControl       *string
	contentDisposition *string
	contentEncoding    *string
	contentLanguage    *string
	storageClass       s3types.StorageClass
	metadata           map[string]string
}

func objectParamsFrom(opts Options) objectParams {
	optional := func(k string) *string {
		if v, ok := opts[k]; ok && v != "" {
			return aws.String(v)
		}
		return nil
	}
	return objectParams{
		contentType:        optional(OptionContentType),
		acl:                s3types.ObjectCannedACL(opts[OptionACL]),
		cacheControl:       optional(OptionCacheControl),
		contentDisposition: optional(OptionContentDisposition),
		contentEncoding:    optional(OptionContentEncoding),
		contentLanguage:    optional(OptionContentLanguage),
		storageClass:       s3types.StorageClass(opts[OptionStorageClass]),
		metadata:           opts.Metadata(),
	}
}

func signedHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if strings.EqualFold(k, "Host") {
			continue
		}
		out[k] = strings.Join(vs, ",")
	}
	return out
}
