package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type EmailRequestBody struct {
	ToEmail      string   `json:"to_email"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	ImageURLs    []string `json:"image_urls"`
	ImageDataB64 []string `json:"image_data_b64"`
}

// SendEmail dispatches the complaint mail. Transport failures come back
// as a structured error status in an otherwise successful response, so
// the endpoint itself always answers 200.
func (a *AppHandler) SendEmail(c *gin.Context) {
	var requestBody EmailRequestBody
	if err := c.BindJSON(&requestBody); err != nil {
		return
	}

	err := a.mailer.Dispatch(
		requestBody.ToEmail,
		requestBody.Subject,
		requestBody.Body,
		requestBody.ImageDataB64,
		requestBody.ImageURLs,
	)
	if err != nil {
		a.log.Warn().Err(err).Str("to", requestBody.ToEmail).Msg("mail dispatch failed")
		c.JSON(http.StatusOK, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
