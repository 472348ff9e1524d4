package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payOSHQ/payos-lib-golang"
	"taovideo/internal/models/request_models"
	"taovideo/internal/services"
	"taovideo/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreateCheckout godoc
// @Summary Create a PayOS checkout link for a credit purchase
// @Description Create a PayOS checkout link for a credit package or a custom top-up amount
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutRequest true "Create Checkout Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/create-checkout [post]
func (p *PaymentController) CreateCheckout(c *gin.Context) {

	var request request_models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userid := c.GetString("user_id")

	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	userId, _ := uuid.Parse(userid)

	checkout, err := p.paymentService.CreateCheckout(c.Request.Context(), userId, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, checkout, "Checkout link created successfully")
}

// HandleWebhook godoc
// @Summary PayOS payment webhook
// @Description Receive and reconcile a PayOS payment notification
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /payos-webhook [post]
func (p *PaymentController) HandleWebhook(c *gin.Context) {

	var body payos.WebhookType
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid webhook payload"})
		return
	}

	err := p.paymentService.HandleWebhook(c.Request.Context(), body)
	switch {
	case err == nil, errors.Is(err, utils.ErrAlreadyProcessed):
		// Duplicates are acked so PayOS stops redelivering.
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, utils.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
	case errors.Is(err, utils.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
	case errors.Is(err, utils.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User profile not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

// GetBalance godoc
// @Summary Get the current credit balance
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos/credits [get]
func (p *PaymentController) GetBalance(c *gin.Context) {

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	userId, _ := uuid.Parse(userid)

	credits, err := p.paymentService.GetBalance(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"credits": credits}, "Balance fetched successfully")
}

// ListTransactions godoc
// @Summary List recent transactions for the current user
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions [get]
func (p *PaymentController) ListTransactions(c *gin.Context) {

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	userId, _ := uuid.Parse(userid)

	transactions, err := p.paymentService.ListTransactions(c.Request.Context(), userId, 50)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, transactions, "Transactions fetched successfully")
}

// CancelTransaction godoc
// @Summary Cancel a pending credit purchase
// @Tags Payments
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/transactions/{id}/cancel [post]
func (p *PaymentController) CancelTransaction(c *gin.Context) {

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	userId, _ := uuid.Parse(userid)

	if err := p.paymentService.CancelTransaction(c.Request.Context(), userId, transactionID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Transaction cancelled")
}
