package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rohits-web03/webfile/internal/models"
)

type S3Options struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	// Endpoint overrides the AWS endpoint, e.g. MinIO. For R2 leave it empty and set AccountID.
	Endpoint  string
	AccountID string
	PathStyle bool
}

// NewS3Client builds a client from static credentials and an optional custom endpoint.
func NewS3Client(opts S3Options) *s3.Client {
	endpoint := opts.Endpoint
	if endpoint == "" && opts.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", opts.AccountID)
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Region:      region,
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = opts.PathStyle || opts.AccountID != ""
	})
}

// ObjectAPI is the subset of *s3.Client used by S3Filesystem.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// GetPresigner signs download URLs. *s3.PresignClient implements it.
type GetPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// isNotFound reports whether err is a missing-object error from S3.
func isNotFound(err error) bool {
	var nf *s3types.NotFound
	var nsk *s3types.NoSuchKey
	return errors.As(err, &nf) || errors.As(err, &nsk)
}

// S3Filesystem stores files as objects under an optional key prefix.
type S3Filesystem struct {
	api       ObjectAPI
	presigner GetPresigner
	bucket    string
	prefix    string
	expires   time.Duration
}

const defaultDownloadExpires = 15 * time.Minute

func NewS3Filesystem(client *s3.Client, bucket, prefix string) *S3Filesystem {
	return NewS3FilesystemWith(client, s3.NewPresignClient(client), bucket, prefix)
}

func NewS3FilesystemWith(api ObjectAPI, presigner GetPresigner, bucket, prefix string) *S3Filesystem {
	return &S3Filesystem{api: api, presigner: presigner, bucket: bucket, prefix: strings.Trim(prefix, "/"), expires: defaultDownloadExpires}
}

func (s *S3Filesystem) key(p string) (string, error) {
	if err := models.ValidatePath(p); err != nil {
		return "", err
	}
	if s.prefix == "" {
		return p, nil
	}
	return path.Join(s.prefix, p), nil
}

// Write spools r to a temporary file first; the SDK needs a seekable body to sign the payload.
func (s *S3Filesystem) Write(ctx context.Context, p string, r io.Reader) (int64, error) {
	key, err := s.key(p)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp("", "webfile-s3-*")
	if err != nil {
		return 0, err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return 0, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          tmp,
		ContentLength: aws.Int64(n),
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *S3Filesystem) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := s.key(p)
	if err != nil {
		return nil, err
	}
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
		}
		return nil, err
	}
	return out.Body, nil
}

// Exists checks if a given object key exists in the bucket.
// Returns true if the object exists, false if not, and an error if something went wrong.
func (s *S3Filesystem) Exists(ctx context.Context, p string) (bool, error) {
	key, err := s.key(p)
	if err != nil {
		return false, err
	}
	_, err = s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		// Other error (e.g. auth, network)
		return false, err
	}
	return true, nil
}

func (s *S3Filesystem) Remove(ctx context.Context, p string) error {
	key, err := s.key(p)
	if err != nil {
		return err
	}
	_, err = s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// URL creates a presigned download URL for the object.
func (s *S3Filesystem) URL(ctx context.Context, p string) (string, error) {
	key, err := s.key(p)
	if err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
