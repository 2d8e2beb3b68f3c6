package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPLOAD_SECRET", "top-secret")
	t.Setenv("PORT", "9090")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "top-secret", cfg.Secret)
	assert.Equal(t, "sha256", cfg.Signer.Algorithm)
	assert.Equal(t, 10*time.Minute, cfg.LocalUpload.Expires)
	require.Len(t, cfg.Filesystems, 1)
	assert.Equal(t, "public", cfg.Filesystems[0].Name)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "Document", cfg.Targets[0].Entity)
}

func TestLoad_MissingSecret(t *testing.T) {
	isolateEnv(t)
	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "secret")
}

const sampleYAML = `
port: "7000"
secret: from-file
public_base_url: https://uploads.example.com
local_upload:
  expires: 2m
  max_size: 1048576
filesystems:
  - name: temp
    type: local
    root: /tmp/webfile
  - name: media
    type: s3
    public_url: https://cdn.example.com
    options:
      ACL: public-read
    s3:
      bucket: media-bucket
      prefix: uploads
      region: eu-west-1
      presign_expires: 30m
targets:
  - entity: Document
    aliases: [Invoice]
    property: attachment
    path_property: attachment_path
    filesystem: media
    prefix: documents
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_File(t *testing.T) {
	isolateEnv(t)
	cfg, err := Load(viper.New(), writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, 2*time.Minute, cfg.LocalUpload.Expires)
	assert.Equal(t, int64(1048576), cfg.LocalUpload.MaxSize)

	require.Len(t, cfg.Filesystems, 2)
	media := cfg.Filesystems[1]
	assert.Equal(t, FilesystemS3, media.Type)
	assert.Equal(t, "media-bucket", media.S3.Bucket)
	assert.Equal(t, 30*time.Minute, media.S3.PresignExpires)
	assert.Equal(t, "public-read", media.Options["acl"], "viper lower-cases map keys")

	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, []string{"Invoice"}, cfg.Targets[0].Aliases)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPLOAD_SECRET", "from-env")
	cfg, err := Load(viper.New(), writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Secret)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolateEnv(t)
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Default()
		c.Secret = "s"
		return c
	}

	c := base()
	require.NoError(t, c.Validate())

	c = base()
	c.Filesystems = append(c.Filesystems, c.Filesystems[0])
	assert.ErrorContains(t, c.Validate(), "duplicate")

	c = base()
	c.Filesystems[0].Type = "ftp"
	assert.ErrorContains(t, c.Validate(), "unknown type")

	c = base()
	c.Filesystems = append(c.Filesystems, FilesystemConfig{Name: "media", Type: FilesystemS3})
	assert.ErrorContains(t, c.Validate(), "bucket")

	c = base()
	c.Targets[0].Filesystem = "nowhere"
	assert.ErrorContains(t, c.Validate(), "unknown filesystem")

	c = base()
	c.Auth.Enabled = true
	assert.ErrorContains(t, c.Validate(), "jwt_secret")
}

func TestCorsOptions(t *testing.T) {
	c := Default()
	opts := c.CorsOptions()
	assert.Equal(t, c.AllowedOrigins, opts.AllowedOrigins)
	assert.True(t, opts.AllowCredentials)
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Secret = "s"
	cfg.DatabaseURL = "postgres://user:pass@db/webfile"
	cfg.Filesystems = append(cfg.Filesystems, FilesystemConfig{
		Name: "media", Type: FilesystemS3,
		S3: S3Config{Bucket: "b", AccessKeyID: "AKIA", SecretAccessKey: "shh"},
	})

	out := cfg.Redacted()
	assert.Equal(t, redacted, out.Secret)
	assert.Equal(t, redacted, out.DatabaseURL)
	assert.Empty(t, out.Auth.JWTSecret)
	assert.Equal(t, redacted, out.Filesystems[1].S3.SecretAccessKey)
	assert.Equal(t, "b", out.Filesystems[1].S3.Bucket)

	// the original is untouched
	assert.Equal(t, "shh", cfg.Filesystems[1].S3.SecretAccessKey)
	assert.Equal(t, "s", cfg.Secret)
}

func TestLocalUploadMountPath(t *testing.T) {
	tests := map[string]string{
		"":               DefaultLocalMount,
		"/":              DefaultLocalMount,
		"files":          "/files",
		"/upload/local/": "/upload/local",
	}
	for mount, want := range tests {
		assert.Equal(t, want, LocalUploadConfig{Mount: mount}.MountPath(), mount)
	}
}
