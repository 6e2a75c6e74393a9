package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	statusOK    = "OK"
	statusError = "ERROR"

	msgInvalidRequest = "Invalid request"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Status: statusOK, Message: message, Data: data})
}

func respondFail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: statusError, Message: message})
}

var errEmptyData = errors.New("data parameter is empty")

// decodeData parses the URL-encoded JSON carried in a "data" parameter.
func decodeData(raw string, dst any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errEmptyData
	}
	return json.Unmarshal([]byte(raw), dst)
}
