// Package server exposes the tool panels over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"CipherScan/pkg/config"
	"CipherScan/pkg/workbench"
)

const shutdownTimeout = 5 * time.Second

// Server serves the panel API
type Server struct {
	conf   config.ServerConfig
	router *gin.Engine
}

// New builds the router for wb
func New(wb *workbench.Workbench, conf config.ServerConfig) *Server {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", HeaderMessage, HeaderRegions}
	if len(conf.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	h := NewHandler(wb, int64(conf.MaxUploadMB)<<20)

	api := router.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/formats", h.Formats)
		api.GET("/theme", h.Theme)

		image := api.Group("/image")
		{
			image.POST("/analyze", h.ImageAnalyze)
			image.POST("/hidden", h.ImageHidden)
		}

		pdf := api.Group("/pdf")
		{
			pdf.POST("/analyze", h.PDFAnalyze)
			pdf.POST("/clean", h.PDFClean)
		}

		api.POST("/watermark", h.Watermark)
		api.POST("/audio/decode", h.AudioDecode)
		api.POST("/scan", h.Scan)
	}

	return &Server{conf: conf, router: router}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.conf.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Server starting on %s", s.conf.Addr)
	log.Printf("API endpoints:")
	log.Printf("  GET  /api/v1/health        - Health check")
	log.Printf("  GET  /api/v1/formats       - Registered analyzers and extractors")
	log.Printf("  GET  /api/v1/theme         - Style table for ?mode=day|night")
	log.Printf("  POST /api/v1/image/analyze - LSB/MSB text of an image")
	log.Printf("  POST /api/v1/image/hidden  - HiddenData metadata entry (?report=pdf|qr)")
	log.Printf("  POST /api/v1/pdf/analyze   - PDF document information")
	log.Printf("  POST /api/v1/pdf/clean     - PDF without metadata (returns the PDF)")
	log.Printf("  POST /api/v1/watermark     - Edge highlighted image (returns a PNG)")
	log.Printf("  POST /api/v1/audio/decode  - WAV LSB text (?report=pdf)")
	log.Printf("  POST /api/v1/scan          - Every analyzer and extractor for the file")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
