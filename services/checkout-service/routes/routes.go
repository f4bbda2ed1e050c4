package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/controllers"
)

func RegisterToolRoutes(r *gin.Engine, tc *controllers.ToolController, bc *controllers.BedrockController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "checkout-service"})
	})
	r.GET("/openapi.json", controllers.OpenAPI)

	r.GET("/payment_link", tc.PaymentLink)
	r.GET("/current_time", tc.CurrentTime)

	r.POST("/bedrock/action-group", bc.ActionGroup)
}
