package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purevia/purevia-water-api/services"
)

// PlaceOrderRequest represents the request body for placing an order
type PlaceOrderRequest struct {
	Email         string          `json:"email" binding:"required,email"`
	OTP           string          `json:"otp" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Mobile        string          `json:"mobile"`
	Items         json.RawMessage `json:"items" binding:"required"`
	TotalPrice    float64         `json:"totalPrice" binding:"required"`
	Delivery      string          `json:"delivery" binding:"required"`
	Address       string          `json:"address" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
}

// PlaceOrder handles POST /order - verifies the order OTP and places the order
func PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	err := services.GetLifecycleService().PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		Email:         req.Email,
		OTP:           req.OTP,
		Name:          req.Name,
		Mobile:        req.Mobile,
		Items:         string(req.Items),
		TotalPrice:    req.TotalPrice,
		Delivery:      req.Delivery,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c)
}

// VerifyDeliveryOTPRequest represents the request body for confirming a delivery
type VerifyDeliveryOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// VerifyDeliveryOTP handles POST /verify-delivery-otp - verifies the
// delivery OTP and marks the most recent pending order delivered
func VerifyDeliveryOTP(c *gin.Context) {
	var req VerifyDeliveryOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	err := services.GetLifecycleService().ConfirmDelivery(c.Request.Context(), req.Email, req.OTP, req.Name)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Delivery confirmed successfully",
	})
}

// VerifyCancelOTPRequest represents the request body for starting a cancellation
type VerifyCancelOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyCancelOTP handles POST /verify-cancel-otp - verifies the cancel
// OTP and returns the customer's pending orders, newest first
func VerifyCancelOTP(c *gin.Context) {
	var req VerifyCancelOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	orders, err := services.GetLifecycleService().VerifyCancelOTP(req.Email, req.OTP)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// DeleteOrderRequest represents the request body for cancelling an order.
// Index is a pointer so that 0 (the newest pending order) passes the
// required check.
type DeleteOrderRequest struct {
	Email string `json:"email" binding:"required,email"`
	Index *int   `json:"index" binding:"required"`
}

// DeleteOrder handles POST /delete-order - cancels the order at the given
// index of the pending list returned by VerifyCancelOTP
func DeleteOrder(c *gin.Context) {
	var req DeleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	err := services.GetLifecycleService().CancelOrder(c.Request.Context(), req.Email, *req.Index)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c)
}
