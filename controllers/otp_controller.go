package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purevia/purevia-water-api/services"
)

// SendOTPRequest represents the request body for requesting an order OTP
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// SendOTP handles POST /send-otp - issues an order-placement OTP and
// mails it to the customer
func SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().SendOrderOTP(req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}

	ok(c)
}

// SendDeliveryOTPRequest represents the request body for requesting a delivery OTP
type SendDeliveryOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// SendDeliveryOTP handles POST /send-delivery-otp - issues a
// delivery-confirmation OTP and mails it to the customer
func SendDeliveryOTP(c *gin.Context) {
	var req SendDeliveryOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().SendDeliveryOTP(req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}

	ok(c)
}

// NotifyDeliveryStart handles POST /notify-delivery-start - notifies the
// admin that the delivery person has arrived, then issues and mails a
// delivery OTP to the customer
func NotifyDeliveryStart(c *gin.Context) {
	var req SendDeliveryOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().NotifyDeliveryStart(c.Request.Context(), req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin notified & delivery OTP sent",
	})
}

// SendCancelOTPRequest represents the request body for requesting a cancel OTP
type SendCancelOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendCancelOTP handles POST /send-cancel-otp - issues a cancellation OTP
// and mails it to the customer
func SendCancelOTP(c *gin.Context) {
	var req SendCancelOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().SendCancelOTP(req.Email); err != nil {
		fail(c, err)
		return
	}

	ok(c)
}
