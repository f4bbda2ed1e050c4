package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/services"
	apperrors "github.com/yashrajoria/grocery-agent/services/common/errors"
)

const (
	pathPaymentLink = "/payment_link"
	pathCurrentTime = "/current_time"
)

// BedrockController answers Bedrock agent action-group invocations. Tool
// failures are reported inside the envelope, the HTTP status stays 200.
type BedrockController struct {
	service services.PaymentLinkService
}

func NewBedrockController(svc services.PaymentLinkService) *BedrockController {
	return &BedrockController{service: svc}
}

// ActionGroup handles POST /bedrock/action-group
func (bc *BedrockController) ActionGroup(ctx *gin.Context) {
	var event models.AgentEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		_ = ctx.Error(apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	status, body := bc.dispatch(ctx, event)
	ctx.JSON(http.StatusOK, models.NewAgentResponse(event, status, body))
}

func (bc *BedrockController) dispatch(ctx *gin.Context, event models.AgentEvent) (int, string) {
	switch event.APIPath {
	case pathPaymentLink:
		raw, _ := event.Param("products")
		result, err := bc.service.CreatePaymentLink(ctx.Request.Context(), models.PaymentLinkRequest{
			SessionID:   event.SessionID,
			ActionGroup: event.ActionGroup,
			InputText:   event.InputText,
			Products:    productsParam(raw),
		})
		if err != nil {
			return apperrors.ErrPaymentLinkFailed.Code, apperrors.ErrPaymentLinkFailed.JSON()
		}
		b, _ := json.Marshal(result)
		return http.StatusOK, string(b)

	case pathCurrentTime:
		return http.StatusOK, strconv.FormatInt(bc.service.CurrentTime(), 10)

	default:
		return apperrors.ErrNotFound.Code, apperrors.ErrNotFound.JSON()
	}
}

// productsParam decodes a JSON string array and falls back to the raw value.
func productsParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	return []string{raw}
}
