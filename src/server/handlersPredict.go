package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"potholeserv/src/app"
)

type PredictResult struct {
	OriginalFilename   string   `json:"original_filename"`
	ResultImageDataURI string   `json:"result_image_data_uri"`
	ResultImageURL     *string  `json:"result_image_url"`
	Count              int      `json:"count"`
	Detections         []string `json:"detections"`
}

// Predict accepts one or more uploads in the "images" multipart field and
// runs each through the detection pipeline in submission order. The batch
// is all-or-nothing: the first undecodable image fails the whole request.
func (a *AppHandler) Predict(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid multipart form: %v", err)})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images in request"})
		return
	}

	results := make([]PredictResult, 0, len(files))
	for _, header := range files {
		filename := sanitizeFilename(header.Filename)

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to read %s: %v", filename, err)})
			return
		}
		contents, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read %s: %v", filename, err)})
			return
		}

		prediction, err := a.pipeline.Process(filename, contents)
		if errors.Is(err, app.ErrDecodeImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to decode %s: %v", filename, err)})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to process %s: %v", filename, err)})
			return
		}

		results = append(results, PredictResult{
			OriginalFilename:   filename,
			ResultImageDataURI: prediction.DataURI,
			ResultImageURL:     nullable(prediction.URL),
			Count:              prediction.Count,
			// Reserved for box/class data.
			Detections: []string{},
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// sanitizeFilename flattens path separators so uploaded names cannot point
// outside the artifact directories. The multipart parser already strips
// directory components; this guards any value that slips past it.
func sanitizeFilename(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}
