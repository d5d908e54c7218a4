// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// msgActionFailed is the coarse message shown when a cart or checkout
// action could not be persisted
const msgActionFailed = "Could not perform action"

// respond writes the success envelope. Feedback cues emitted while handling
// the request travel with it.
func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	if cues := middleware.GetFeedback(c); len(cues) > 0 {
		body["feedback"] = cues
	}
	c.JSON(status, body)
}

// fail writes the error envelope
func fail(c *gin.Context, status int, message string) {
	failWith(c, status, gin.H{"error": message})
}

func failWith(c *gin.Context, status int, body gin.H) {
	if cues := middleware.GetFeedback(c); len(cues) > 0 {
		body["feedback"] = cues
	}
	c.JSON(status, body)
}

// currentSession returns the request's session or answers 500
func currentSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		fail(c, http.StatusInternalServerError, "Session not available")
		return nil, false
	}
	return sess, true
}

// parseID reads a positive integer path parameter or answers 400
func parseID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Invalid "+label)
		return 0, false
	}
	return id, true
}
