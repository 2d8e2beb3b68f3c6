package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/rohits-web03/webfile/internal/api/handlers"
	"github.com/rohits-web03/webfile/internal/api/services"
	"github.com/rohits-web03/webfile/internal/config"
	"github.com/rohits-web03/webfile/internal/directupload"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rohits-web03/webfile/internal/mapping"
	"github.com/rohits-web03/webfile/internal/metrics"
	"github.com/rohits-web03/webfile/internal/models"
	"github.com/rohits-web03/webfile/internal/repositories"
	"github.com/rohits-web03/webfile/internal/signer"
	"github.com/rohits-web03/webfile/internal/target"
)

// SignatureKeyInfo separates the upload signature key from the target key,
// both derived from the same secret.
const SignatureKeyInfo = "webfile upload signature"

// App holds everything the server needs, built once at startup.
type App struct {
	Handler  http.Handler
	Index    *mapping.Index
	Targets  *target.Encryptor
	Registry *directupload.Registry
	Storage  *repositories.Filesystems
	Metrics  *prometheus.Registry
	DB       *gorm.DB
}

// BuildIndex turns the configured targets into a lookup index.
func BuildIndex(targets []config.TargetConfig) (*mapping.Index, error) {
	entries := make([]mapping.Entry, 0, len(targets))
	for _, t := range targets {
		entries = append(entries, mapping.Entry{
			Configuration: models.FilePropertyConfiguration{
				EntityClass:  t.Entity,
				FileProperty: t.Property,
				PathProperty: t.PathProperty,
				Filesystem:   t.Filesystem,
				PathPrefix:   t.Prefix,
			},
			Aliases: t.Aliases,
		})
	}
	return mapping.NewIndex(entries...)
}

func NewApp(cfg *config.Config, log logging.Logger, listeners ...services.Listener) (*App, error) {
	ctx := context.Background()

	idx, err := BuildIndex(cfg.Targets)
	if err != nil {
		return nil, fmt.Errorf("file property configuration: %w", err)
	}
	enc, err := target.NewEncryptor(cfg.Secret, idx)
	if err != nil {
		return nil, err
	}
	sigKey, err := target.DeriveKey(cfg.Secret, SignatureKeyInfo, 32)
	if err != nil {
		return nil, err
	}
	sg, err := signer.New(cfg.Signer.Algorithm, sigKey)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.NewPrometheusObserver("webfile", reg)
	if err != nil {
		return nil, err
	}

	mount := cfg.LocalUpload.MountPath()
	backends := make(map[string]repositories.Backend, len(cfg.Filesystems))
	// only local filesystems are readable through /files; object stores use presigned GETs
	served := make(map[string]repositories.Backend)
	adapters := make(map[string]directupload.Adapter, len(cfg.Filesystems))
	sources := make(map[string]services.URLSource, len(cfg.Filesystems))
	for _, fs := range cfg.Filesystems {
		defaults := directupload.NormalizeOptions(fs.Options)

		var adapter directupload.Adapter
		switch strings.ToLower(fs.Type) {
		case config.FilesystemLocal:
			local, err := repositories.NewLocalFilesystem(fs.Root)
			if err != nil {
				return nil, fmt.Errorf("filesystem %q: %w", fs.Name, err)
			}
			backends[fs.Name] = local
			served[fs.Name] = local
			adapter = directupload.NewLocalSignedAdapter(directupload.LocalConfig{
				Filesystem: fs.Name,
				BaseURL:    cfg.PublicBaseURL,
				Mount:      mount,
				Expires:    cfg.LocalUpload.Expires,
				Defaults:   defaults,
			}, sg)
			sources[fs.Name] = services.URLSource{BaseURL: fs.PublicURL}

		case config.FilesystemS3, config.FilesystemR2:
			client := repositories.NewS3Client(repositories.S3Options{
				AccessKeyID:     fs.S3.AccessKeyID,
				SecretAccessKey: fs.S3.SecretAccessKey,
				Region:          fs.S3.Region,
				Endpoint:        fs.S3.Endpoint,
				AccountID:       fs.S3.AccountID,
				PathStyle:       fs.S3.PathStyle,
			})
			remote := repositories.NewS3Filesystem(client, fs.S3.Bucket, fs.S3.Prefix)
			backends[fs.Name] = remote
			adapter, err = directupload.NewS3ObjectStoreAdapter(directupload.ObjectStoreConfig{
				Filesystem: fs.Name,
				Bucket:     fs.S3.Bucket,
				Prefix:     fs.S3.Prefix,
				Expires:    fs.S3.PresignExpires,
				Defaults:   defaults,
			}, client)
			if err != nil {
				return nil, err
			}
			sources[fs.Name] = services.URLSource{BaseURL: fs.PublicURL, KeyPrefix: fs.S3.Prefix, Signer: remote}

		default:
			return nil, fmt.Errorf("filesystem %q: unknown type %q", fs.Name, fs.Type)
		}
		adapters[fs.Name] = directupload.Instrument(fs.Name, adapter, observer)
		log.Info(ctx, "filesystem registered", "name", fs.Name, "type", fs.Type)
	}

	registry := directupload.NewRegistry(adapters)
	storage := repositories.NewFilesystems(backends)
	urls := services.NewPublicURLs(sources)

	svc := services.NewUploadService(enc, registry, urls, log, listeners...)

	deps := Deps{
		Log:         log,
		Cors:        cfg.CorsOptions(),
		LocalMount:  mount,
		Uploads:     handlers.NewUploadHandler(svc, log),
		LocalUpload: handlers.NewLocalUploadHandler(sg, storage, cfg.LocalUpload.MaxSize, log),
		Files:       repositories.NewFilesystems(served),
		Metrics:     reg,
	}
	if cfg.Auth.Enabled {
		deps.JWTSecret = cfg.Auth.JWTSecret
	}

	app := &App{Index: idx, Targets: enc, Registry: registry, Storage: storage, Metrics: reg}

	if cfg.DatabaseURL != "" {
		db, err := repositories.ConnectDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		app.DB = db

		docCfg, err := idx.Lookup(models.DocumentEntity, models.DocumentAttachmentProp)
		if err != nil {
			log.Warn(ctx, "document routes disabled", "error", err)
		} else {
			deps.Documents = handlers.NewDocumentHandler(db, docCfg, enc, storage, urls, log)
		}
	}

	app.Handler = SetupRouter(deps)
	return app, nil
}

// Close releases the database connection pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
