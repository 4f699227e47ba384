package services

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"
)

// OTP purposes. Each purpose has its own registry; codes are never
// shared across purposes.
const (
	OTPPurposeOrder    = "order"
	OTPPurposeDelivery = "delivery"
	OTPPurposeCancel   = "cancel"
)

// OTP parameters per purpose, matching what customers see in the mails
const (
	OrderOTPDigits    = 6
	OrderOTPTTL       = 5 * time.Minute
	DeliveryOTPDigits = 4
	DeliveryOTPTTL    = 10 * time.Minute
	CancelOTPDigits   = 6
	CancelOTPTTL      = 5 * time.Minute
)

// OTPService issues and verifies single-use numeric passcodes keyed by
// (email, purpose). A code is consumed exactly once, on successful
// verification, before the caller runs any dependent side effect.
type OTPService interface {
	// Issue generates a code of the given number of digits, stores it with
	// expiry now+ttl, and returns it. Any prior code for the same
	// (email, purpose) is silently invalidated.
	Issue(email, purpose string, digits int, ttl time.Duration) (string, error)

	// Verify checks the supplied code. On success the stored record is
	// deleted before returning. Failures: ErrOTPMissing, ErrOTPExpired,
	// ErrOTPMismatch. A mismatch leaves the record intact.
	Verify(email, purpose, code string) error
}

type otpRecord struct {
	code    string
	expires time.Time
}

// MemoryOTPService is the in-memory OTPService used in production.
// Expired records are dropped lazily on access and by a periodic sweep.
type MemoryOTPService struct {
	mu      sync.Mutex
	records map[string]otpRecord
	now     func() time.Time // injectable clock for tests
}

var otpServiceInstance OTPService

// InitOTPService initializes the OTP service and starts its expiry sweep
func InitOTPService() OTPService {
	s := NewMemoryOTPService()
	go s.sweepLoop(time.Minute)
	otpServiceInstance = s
	return s
}

// GetOTPService returns the initialized OTP service instance
func GetOTPService() OTPService {
	return otpServiceInstance
}

// SetOTPService sets the OTP service instance (primarily for testing)
func SetOTPService(s OTPService) {
	otpServiceInstance = s
}

// NewMemoryOTPService creates an in-memory OTP service without the sweep
func NewMemoryOTPService() *MemoryOTPService {
	return &MemoryOTPService{
		records: make(map[string]otpRecord),
		now:     time.Now,
	}
}

func otpKey(email, purpose string) string {
	return purpose + ":" + email
}

// Issue generates and stores a fresh code for (email, purpose)
func (s *MemoryOTPService) Issue(email, purpose string, digits int, ttl time.Duration) (string, error) {
	code, err := randomDigits(digits)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.records[otpKey(email, purpose)] = otpRecord{
		code:    code,
		expires: s.now().Add(ttl),
	}
	s.mu.Unlock()

	return code, nil
}

// Verify checks and, on success, consumes the stored code
func (s *MemoryOTPService) Verify(email, purpose, code string) error {
	key := otpKey(email, purpose)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return ErrOTPMissing
	}
	if s.now().After(record.expires) {
		delete(s.records, key)
		return ErrOTPExpired
	}
	if record.code != code {
		// Mismatch does not consume: the customer may retry with the
		// correct code from the same mail.
		return ErrOTPMismatch
	}

	// Consume before the caller runs any side effect, so a failed later
	// step cannot be replayed with the same code.
	delete(s.records, key)
	return nil
}

// sweepLoop periodically drops expired records
func (s *MemoryOTPService) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.sweep()
	}
}

func (s *MemoryOTPService) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, record := range s.records {
		if now.After(record.expires) {
			delete(s.records, key)
		}
	}
}

// randomDigits returns a uniformly random numeric string of n digits
func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
