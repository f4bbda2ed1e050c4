package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/services"
	apperrors "github.com/yashrajoria/grocery-agent/services/common/errors"
)

// ToolController exposes the agent tools over plain HTTP.
type ToolController struct {
	service services.PaymentLinkService
}

func NewToolController(svc services.PaymentLinkService) *ToolController {
	return &ToolController{service: svc}
}

// PaymentLink handles GET /payment_link?products=...
func (tc *ToolController) PaymentLink(ctx *gin.Context) {
	req := models.PaymentLinkRequest{
		SessionID:   ctx.GetHeader("X-Session-ID"),
		ActionGroup: "http",
		Products:    ctx.QueryArray("products"),
	}

	result, err := tc.service.CreatePaymentLink(ctx.Request.Context(), req)
	if err != nil {
		_ = ctx.Error(apperrors.Wrap(apperrors.ErrPaymentLinkFailed, err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// CurrentTime handles GET /current_time
func (tc *ToolController) CurrentTime(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, tc.service.CurrentTime())
}
