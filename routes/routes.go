package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/controllers"
	"github.com/vnkhanh/code-quiz-web/middleware"
	"github.com/vnkhanh/code-quiz-web/services"
	"github.com/vnkhanh/code-quiz-web/utils"
)

func SetupRouter(r *gin.Engine, cache *services.QuestionCache, sessions *utils.SessionCodec, log *zap.Logger) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.Use(middleware.DepsMiddleware(cache, sessions, log))

	r.GET("/health", controllers.HealthCheck)

	r.GET("/", controllers.Inicio)
	r.GET("/quiz", controllers.QuizGet)
	r.POST("/quiz", controllers.QuizPost)
	r.GET("/resultado", controllers.Resultado)
	r.GET("/error", controllers.ErrorPage)

	return r
}
