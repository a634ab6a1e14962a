package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	httperr "github.com/aevon-lab/routekit/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// urlResult answers with the raw request url, echoing the body when one was sent.
func urlResult(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{Error: httperr.ErrorBody{
				Message: "Request body is too large",
				Type:    httperr.HttpBodyTooLarge,
			}})
			return
		}
		c.JSON(http.StatusBadRequest, httperr.NewResponse("Failed to read request body"))
		return
	}

	result := gin.H{"url": c.Request.URL.RequestURI()}
	if len(body) > 0 {
		result["body"] = string(body)
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// withMeta adds a "meta" object to a JSON response body.
func withMeta(payload []byte, meta map[string]interface{}) ([]byte, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	meta["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	body["meta"] = meta
	return json.Marshal(body)
}
