package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/services"
	"github.com/vnkhanh/code-quiz-web/utils"
)

// DepsMiddleware gắn các service dùng chung vào context của từng request
// để controller lấy qua c.MustGet, không cần biến toàn cục.
func DepsMiddleware(cache *services.QuestionCache, sessions *utils.SessionCodec, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("cache", cache)
		c.Set("sessions", sessions)
		c.Set("logger", log)
		c.Next()
	}
}
