package httpx

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
)

// ErrorResponse is the JSON error envelope.
// swagger:model
type ErrorResponse struct {
	// Error message
	// example: Order not found
	Error string `json:"error"`
}

// Error serializes a component error into {"error": message} with the status
// from the apperr taxonomy. Dependency and unknown failures are logged with
// their cause and returned to the client with a generic message.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		rid, _ := c.Get("rid")
		log.Printf("[error] rid=%v %s %s: %v", rid, c.Request.Method, c.Request.URL.Path, err)
		msg = "Internal server error"
	}
	c.JSON(status, ErrorResponse{Error: msg})
}

// AbortError is Error for middleware chains.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
