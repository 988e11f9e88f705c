package middleware

import (
	"github.com/gin-gonic/gin"

	"logframe-studio/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

// RequestID honors an inbound correlation id or mints one, echoes it on
// the response and stashes it in the context for the access log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" {
			rid = utils.NewID()
			c.Request.Header.Set(KeyRequestID, rid)
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
