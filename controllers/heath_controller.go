package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/code-quiz-web/services"
)

func HealthCheck(c *gin.Context) {
	cache := c.MustGet("cache").(*services.QuestionCache)

	// Mặc định trạng thái OK
	response := gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
		"timestamp": time.Now().Unix(),
		"cache": gin.H{
			"size":     cache.Len(),
			"capacity": cache.Cap(),
		},
	}

	// Cache rỗng thì request vẫn phục vụ được (sinh nóng), chỉ báo degraded
	if cache.Len() == 0 {
		response["status"] = "degraded"
		response["message"] = "Question cache is empty"
	}

	c.JSON(http.StatusOK, response)
}
