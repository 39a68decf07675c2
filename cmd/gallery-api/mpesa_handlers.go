package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkimathi/gallery-api/internal/mpesa"
	"github.com/mkimathi/gallery-api/internal/order"
)

func writePaymentError(c *gin.Context, err error) {
	var vErr *mpesa.ValidationError
	switch {
	case errors.As(err, &vErr), errors.Is(err, order.ErrInvalidKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrUserNotFound),
		errors.Is(err, order.ErrExhibitionNotFound),
		errors.Is(err, order.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment processing failed"})
	}
}

func stkPushHandler(orch *mpesa.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mpesa.PushRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		resp, err := orch.HandleStkPush(c.Request.Context(), req)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func paymentStatusHandler(orch *mpesa.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		checkoutID := c.Param("id")
		if checkoutID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing checkout request id"})
			return
		}
		resp, err := orch.CheckStatus(c.Request.Context(), checkoutID)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// callbackHandler always answers 200 with a success flag so the gateway
// does not retry payloads we have already judged.
func callbackHandler(orch *mpesa.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var env mpesa.CallbackEnvelope
		if err := c.ShouldBindJSON(&env); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback payload"})
			return
		}
		resp, err := orch.HandleCallback(c.Request.Context(), env)
		if err != nil {
			if errors.Is(err, order.ErrTransactionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Callback processing failed"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
