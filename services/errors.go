package services

import "errors"

// Sentinel errors surfaced to HTTP handlers as 400 responses
var (
	ErrOTPMissing        = errors.New("OTP not sent")
	ErrOTPExpired        = errors.New("OTP expired")
	ErrOTPMismatch       = errors.New("Invalid OTP")
	ErrOrderNotFound     = errors.New("Order not found")
	ErrRowNotDeliverable = errors.New("Order not confirmed or already cancelled")
)
