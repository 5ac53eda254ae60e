package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"potholeserv/src/app"
)

type (
	ComplaintRequestBody struct {
		PotholeCount  int    `json:"pothole_count"`
		RoadName      string `json:"road_name"`
		Area          string `json:"area"`
		City          string `json:"city"`
		UserName      string `json:"user_name"`
		AuthorityName string `json:"authority_name"`
		ExtraDetails  string `json:"extra_details"`
	}

	PDFRequestBody struct {
		ComplaintText string `json:"complaint_text"`
	}
)

// GenerateComplaint renders the fixed letter template over the submitted
// fields. Missing fields render as empty strings or documented defaults.
func (a *AppHandler) GenerateComplaint(c *gin.Context) {
	var requestBody ComplaintRequestBody
	if err := c.BindJSON(&requestBody); err != nil {
		return
	}

	text := app.RenderComplaint(app.ComplaintFields{
		PotholeCount:  requestBody.PotholeCount,
		RoadName:      requestBody.RoadName,
		Area:          requestBody.Area,
		City:          requestBody.City,
		UserName:      requestBody.UserName,
		AuthorityName: requestBody.AuthorityName,
		ExtraDetails:  requestBody.ExtraDetails,
	})

	c.JSON(http.StatusOK, gin.H{"complaint_text": text})
}

// GeneratePDF renders the complaint text into an A4 document, returned
// inline and optionally persisted under the fixed legacy filename.
func (a *AppHandler) GeneratePDF(c *gin.Context) {
	var requestBody PDFRequestBody
	if err := c.BindJSON(&requestBody); err != nil {
		return
	}

	dataURI, raw, err := a.pdf.Render(requestBody.ComplaintText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to generate PDF: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pdf_url":      nullable(a.store.SavePDF(raw)),
		"pdf_data_uri": dataURI,
	})
}
