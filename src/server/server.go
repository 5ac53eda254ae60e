package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"potholeserv/src/app"
	cfg "potholeserv/src/configuration"
)

// RunServer wires the adapters and serves until the listener fails. The
// detector net is loaded once here and shared by reference across
// requests.
func RunServer(config *cfg.Properties, logger zerolog.Logger) error {
	store := app.NewArtifactStore(config.Storage.SaveOutputs, config.Storage.StaticDir, logger)
	if err := store.Prepare(); err != nil {
		return fmt.Errorf("prepare artifact directories: %w", err)
	}

	if err := ensureModel(config, logger); err != nil {
		return err
	}
	detector, err := app.NewDetector(config.Model.Path, config.Model.InputSize,
		config.Model.Confidence, config.Model.NMS, logger)
	if err != nil {
		return err
	}
	defer detector.Close()

	pipeline := app.NewDetectionPipeline(app.NewImageCodec(), detector, store)
	mailer := app.NewMailer(config.Mail.Host, config.Mail.Port,
		config.Mail.Username, config.Mail.Password, config.Mail.FromAddress(), store, logger)
	handler := NewHandler(config, pipeline, mailer, app.NewPDFRenderer(), store, logger)

	router := NewRouter(config, handler)
	logger.Info().Str("port", config.Server.Port).Bool("save_outputs", config.Storage.SaveOutputs).Msg("server starting")
	return router.Run(fmt.Sprintf(":%s", config.Server.Port))
}

// NewRouter registers middleware and routes. Split out so handler tests
// can exercise the full routing table.
func NewRouter(config *cfg.Properties, handler *AppHandler) *gin.Engine {
	router := gin.Default()

	// The HTML frontend may be hosted elsewhere, so stay permissive.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(requestID())
	pprof.Register(router)

	router.GET("/", handler.Index)
	router.GET("/health", handler.GetHealth)
	router.Static("/frontend", config.Storage.FrontendDir)
	// Legacy disk-based URLs only resolve when persistence is on.
	if config.Storage.SaveOutputs {
		router.Static("/static", config.Storage.StaticDir)
	}

	api := router.Group("/api")
	api.POST("/predict", handler.Predict)
	api.POST("/generate_complaint", handler.GenerateComplaint)
	api.POST("/generate_pdf", handler.GeneratePDF)
	api.POST("/send_email", handler.SendEmail)

	router.NoRoute(func(ctx *gin.Context) { ctx.JSON(http.StatusNotFound, gin.H{}) })
	return router
}

// ensureModel fetches the weights from the configured bucket when the
// checkpoint is missing locally.
func ensureModel(config *cfg.Properties, logger zerolog.Logger) error {
	if _, err := os.Stat(config.Model.Path); err == nil {
		return nil
	}
	if config.S3.Host == "" {
		return fmt.Errorf("model weights not found at %s and no S3 host configured", config.Model.Path)
	}

	clientS3, err := app.NewMinioS3Client(config.S3.Host, config.S3.AccessKey,
		config.S3.SecretKey, config.S3.Bucket, config.S3.UseSSL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.S3.Timeout)
	defer cancel()

	logger.Info().Str("bucket", config.S3.Bucket).Str("key", config.S3.ModelKey).Msg("fetching model weights")
	if err := clientS3.FetchObject(ctx, config.S3.ModelKey, config.Model.Path); err != nil {
		return fmt.Errorf("fetch model weights: %w", err)
	}
	return nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
