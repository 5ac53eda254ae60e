package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"potholeserv/src/app"
	cfg "potholeserv/src/configuration"
)

type (
	// Pipeline runs one uploaded image through decode, inference and
	// re-encode. Implemented by app.DetectionPipeline.
	Pipeline interface {
		Process(filename string, data []byte) (app.Prediction, error)
	}

	// Dispatcher sends a complaint mail with resolved attachments.
	Dispatcher interface {
		Dispatch(to, subject, body string, dataPayloads, diskRefs []string) error
	}

	// Renderer turns line-delimited text into a document byte stream.
	Renderer interface {
		Render(text string) (dataURI string, raw []byte, err error)
	}

	AppHandler struct {
		config   *cfg.Properties
		pipeline Pipeline
		mailer   Dispatcher
		pdf      Renderer
		store    *app.ArtifactStore
		log      zerolog.Logger
	}
)

func NewHandler(config *cfg.Properties, pipeline Pipeline, mailer Dispatcher, pdf Renderer, store *app.ArtifactStore, log zerolog.Logger) *AppHandler {
	return &AppHandler{
		config:   config,
		pipeline: pipeline,
		mailer:   mailer,
		pdf:      pdf,
		store:    store,
		log:      log,
	}
}

func (a *AppHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Index serves the landing page.
func (a *AppHandler) Index(c *gin.Context) {
	c.File(filepath.Join(a.config.Storage.FrontendDir, "index.html"))
}

// nullable maps the store's empty-URL convention onto a JSON null.
func nullable(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}
