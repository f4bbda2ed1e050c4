package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpenAPI serves the action-group schema registered with the Bedrock agent.
func OpenAPI(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, openAPIDocument)
}

var openAPIDocument = gin.H{
	"openapi": "3.0.3",
	"info": gin.H{
		"title":   "Grocery agent tools",
		"version": "1.0.0",
	},
	"paths": gin.H{
		pathPaymentLink: gin.H{
			"get": gin.H{
				"operationId": "payment_link",
				"description": "Creates a stripe payment link when given a list of products and their quantities",
				"parameters": []gin.H{{
					"name":        "products",
					"in":          "query",
					"required":    true,
					"description": "a list of products and quantities",
					"schema":      gin.H{"type": "array", "items": gin.H{}},
					"examples": gin.H{
						"list": gin.H{"value": []string{"[{name=Fresh smoothies, quantity=2}, {name=Kiwi fruit, quantity=3}]"}},
					},
				}},
				"responses": gin.H{
					"200": gin.H{
						"description": "Stripe payment link",
						"content": gin.H{
							"application/json": gin.H{"schema": gin.H{"type": "string"}},
						},
					},
					"500": gin.H{"description": "Failed to create payment link"},
				},
			},
		},
		pathCurrentTime: gin.H{
			"get": gin.H{
				"operationId": "current_time",
				"description": "Gets the current time in seconds",
				"responses": gin.H{
					"200": gin.H{
						"description": "Seconds since the Unix epoch",
						"content": gin.H{
							"application/json": gin.H{"schema": gin.H{"type": "integer"}},
						},
					},
				},
			},
		},
	},
}
