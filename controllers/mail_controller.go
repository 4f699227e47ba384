package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/purevia/purevia-water-api/services"
)

// MailRequest represents the request body shared by the manual mail routes
type MailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// SendDeliveredMail handles POST /send-delivered-mail - confirms the
// ledger row, sends the delivered mail, and marks the row delivered
func SendDeliveredMail(c *gin.Context) {
	var req MailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().SendDeliveredMail(c.Request.Context(), req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}

	ok(c)
}

// SendReviewMail handles POST /send-review-mail - asks the customer for a review
func SendReviewMail(c *gin.Context) {
	var req MailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().SendReviewMail(req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}

	ok(c)
}

// SendOutDeliveryMail handles POST /send-out-delivery-mail - tells the
// customer the order is out for delivery
func SendOutDeliveryMail(c *gin.Context) {
	var req MailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	if err := services.GetLifecycleService().SendOutForDeliveryMail(req.Email, req.Name); err != nil {
		fail(c, err)
		return
	}

	ok(c)
}
