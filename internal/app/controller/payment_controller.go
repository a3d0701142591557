package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
	"github.com/petstoryclub/petstory-backend/pkg/payment/promptpay"
)

type PaymentController struct {
	settingsService service.SettingsService
}

func NewPaymentController(settingsService service.SettingsService) *PaymentController {
	return &PaymentController{
		settingsService: settingsService,
	}
}

type PromptPayRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePromptPayPayload builds the QR payload for the checkout page. The
// receiving account comes from site settings; the client renders the QR
// image itself.
// POST /api/v1/payments/promptpay
func (ctrl *PaymentController) CreatePromptPayPayload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PromptPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.PaymentInvalidAmount, "ยอดชำระไม่ถูกต้อง")
		return
	}

	settings, err := ctrl.settingsService.GetSettings()
	if err != nil {
		log.Error("Failed to load settings for PromptPay payload", err, nil)
		errors.InternalError(c, "")
		return
	}

	if settings.PromptPayID == "" {
		errors.BadRequest(c, errors.PaymentTargetNotSet, "ร้านค้ายังไม่ได้ตั้งค่าบัญชี PromptPay")
		return
	}

	payload, err := promptpay.BuildPayload(settings.PromptPayID, req.Amount)
	if err != nil {
		if stderrors.Is(err, promptpay.ErrInvalidTarget) {
			log.Error("Configured PromptPay ID is invalid", err, nil)
			errors.BadRequest(c, errors.PaymentInvalidPromptPay, "บัญชี PromptPay ของร้านไม่ถูกต้อง")
			return
		}
		log.Error("Failed to build PromptPay payload", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payload": payload,
		"amount":  req.Amount,
	})
}
