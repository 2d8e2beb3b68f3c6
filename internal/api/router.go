package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rohits-web03/webfile/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/webfile/internal/api/handlers"
	"github.com/rohits-web03/webfile/internal/api/middleware"
	"github.com/rohits-web03/webfile/internal/logging"
	"github.com/rs/cors"
)

// Deps are the collaborators the router mounts. Documents is optional.
type Deps struct {
	Log         logging.Logger
	Cors        cors.Options
	JWTSecret   string // empty disables auth on the orchestrator routes
	LocalMount  string // normalized, see config.LocalUploadConfig.MountPath
	Uploads     *handlers.UploadHandler
	LocalUpload *handlers.LocalUploadHandler
	Files       handlers.FileReader
	Documents   *handlers.DocumentHandler
	Metrics     prometheus.Gatherer
}

func SetupRouter(d Deps) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(d.Cors)

	protect := func(h http.Handler) http.Handler { return h }
	if d.JWTSecret != "" {
		protect = middleware.Auth(d.JWTSecret)
	}

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	if d.Metrics != nil {
		mainMux.Handle("GET /metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	// the signed envelope authenticates these requests
	if d.LocalUpload != nil {
		mainMux.Handle("PUT "+d.LocalMount+"/{filesystem}/{path...}", d.LocalUpload)
		mainMux.Handle("POST "+d.LocalMount+"/{filesystem}/{path...}", d.LocalUpload)
	}

	if d.Files != nil {
		mainMux.Handle("GET /files/{filesystem}/{path...}", handlers.ServeFile(d.Files, d.Log))
	}

	// ---------- PROTECTED ROUTES ----------
	uploadMux := http.NewServeMux()
	uploadMux.HandleFunc("POST /params", d.Uploads.Params)
	uploadMux.HandleFunc("POST /multipart", d.Uploads.CreateMultipart)
	uploadMux.HandleFunc("GET /multipart/parts", d.Uploads.ListParts)
	uploadMux.HandleFunc("POST /multipart/parts", d.Uploads.ListParts)
	uploadMux.HandleFunc("POST /multipart/part", d.Uploads.SignPart)
	uploadMux.HandleFunc("POST /multipart/complete", d.Uploads.CompleteMultipart)
	uploadMux.HandleFunc("POST /multipart/abort", d.Uploads.AbortMultipart)

	mainMux.Handle("/upload/",
		http.StripPrefix("/upload", protect(uploadMux)),
	)

	if d.Documents != nil {
		docMux := http.NewServeMux()
		docMux.HandleFunc("GET /api/v1/documents/target", d.Documents.Target)
		docMux.HandleFunc("POST /api/v1/documents", d.Documents.Create)
		docMux.HandleFunc("GET /api/v1/documents/{id}", d.Documents.Get)

		mainMux.Handle("/api/v1/documents", protect(docMux))
		mainMux.Handle("/api/v1/documents/", protect(docMux))
	}

	d.Log.Info(context.Background(), "router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(d.Log)(handler)
	return handler
}
