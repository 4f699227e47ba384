package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewMemoryOTPService()

	code, err := s.Issue("alice@x.com", OTPPurposeOrder, OrderOTPDigits, OrderOTPTTL)
	assert.NoError(t, err)
	assert.Len(t, code, OrderOTPDigits)

	// Correct, unexpired code verifies exactly once
	assert.NoError(t, s.Verify("alice@x.com", OTPPurposeOrder, code))

	// Second verification with the same code fails: it was consumed
	assert.ErrorIs(t, s.Verify("alice@x.com", OTPPurposeOrder, code), ErrOTPMissing)
}

func TestVerifyWithoutIssue(t *testing.T) {
	s := NewMemoryOTPService()
	assert.ErrorIs(t, s.Verify("nobody@x.com", OTPPurposeOrder, "123456"), ErrOTPMissing)
}

func TestVerifyExpired(t *testing.T) {
	s := NewMemoryOTPService()

	now := time.Now()
	s.now = func() time.Time { return now }

	code, err := s.Issue("alice@x.com", OTPPurposeCancel, CancelOTPDigits, CancelOTPTTL)
	assert.NoError(t, err)

	// Jump past the expiry; even the matching code must fail
	s.now = func() time.Time { return now.Add(CancelOTPTTL + time.Second) }
	assert.ErrorIs(t, s.Verify("alice@x.com", OTPPurposeCancel, code), ErrOTPExpired)

	// The expired record was dropped lazily
	assert.ErrorIs(t, s.Verify("alice@x.com", OTPPurposeCancel, code), ErrOTPMissing)
}

func TestVerifyMismatchDoesNotConsume(t *testing.T) {
	s := NewMemoryOTPService()

	code, err := s.Issue("alice@x.com", OTPPurposeDelivery, DeliveryOTPDigits, DeliveryOTPTTL)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.Verify("alice@x.com", OTPPurposeDelivery, "0000"), ErrOTPMismatch)

	// The record survives a mismatch; the right code still works
	assert.NoError(t, s.Verify("alice@x.com", OTPPurposeDelivery, code))
}

func TestReissueOverwrites(t *testing.T) {
	s := NewMemoryOTPService()

	first, err := s.Issue("alice@x.com", OTPPurposeOrder, OrderOTPDigits, OrderOTPTTL)
	assert.NoError(t, err)

	second, err := s.Issue("alice@x.com", OTPPurposeOrder, OrderOTPDigits, OrderOTPTTL)
	assert.NoError(t, err)

	if first != second {
		// The overwritten code is dead even though it never expired
		assert.ErrorIs(t, s.Verify("alice@x.com", OTPPurposeOrder, first), ErrOTPMismatch)
	}
	assert.NoError(t, s.Verify("alice@x.com", OTPPurposeOrder, second))
}

func TestPurposesAreDisjoint(t *testing.T) {
	s := NewMemoryOTPService()

	orderCode, err := s.Issue("alice@x.com", OTPPurposeOrder, OrderOTPDigits, OrderOTPTTL)
	assert.NoError(t, err)

	// An order code never satisfies the delivery registry
	assert.ErrorIs(t, s.Verify("alice@x.com", OTPPurposeDelivery, orderCode), ErrOTPMissing)

	// And issuing a delivery code does not disturb the order code
	_, err = s.Issue("alice@x.com", OTPPurposeDelivery, DeliveryOTPDigits, DeliveryOTPTTL)
	assert.NoError(t, err)
	assert.NoError(t, s.Verify("alice@x.com", OTPPurposeOrder, orderCode))
}

func TestSweepDropsExpiredRecords(t *testing.T) {
	s := NewMemoryOTPService()

	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Issue("stale@x.com", OTPPurposeOrder, OrderOTPDigits, time.Minute)
	assert.NoError(t, err)
	_, err = s.Issue("fresh@x.com", OTPPurposeOrder, OrderOTPDigits, time.Hour)
	assert.NoError(t, err)

	s.now = func() time.Time { return now.Add(10 * time.Minute) }
	s.sweep()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.NotContains(t, s.records, otpKey("stale@x.com", OTPPurposeOrder))
	assert.Contains(t, s.records, otpKey("fresh@x.com", OTPPurposeOrder))
}

func TestRandomDigits(t *testing.T) {
	for _, n := range []int{4, 6} {
		code, err := randomDigits(n)
		assert.NoError(t, err)
		assert.Len(t, code, n)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9', "expected digit, got %q", ch)
		}
	}
}
