package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/purevia/purevia-water-api/config"
	"github.com/purevia/purevia-water-api/models"
	"gorm.io/gorm"
)

// PlaceOrderInput carries everything needed to place a verified order
type PlaceOrderInput struct {
	Email         string
	OTP           string
	Name          string
	Mobile        string
	Items         string // JSON-encoded cart contents
	TotalPrice    float64
	Delivery      string
	Address       string
	PaymentMethod string
}

// LifecycleService coordinates order state transitions. Each transition
// runs in a fixed order: OTP check first (consuming the code), then the
// database, then the remote ledger and mail. The database is
// authoritative; on partial failure the ledger may run ahead of it, but
// never the other way around. There are no retries and no rollback — any
// step error aborts the whole request.
type LifecycleService interface {
	SendOrderOTP(email, name string) error
	PlaceOrder(ctx context.Context, in PlaceOrderInput) error

	SendDeliveryOTP(email, name string) error
	NotifyDeliveryStart(ctx context.Context, email, name string) error
	ConfirmDelivery(ctx context.Context, email, otp, name string) error

	SendCancelOTP(email string) error
	// VerifyCancelOTP consumes the cancel OTP and returns the customer's
	// pending orders newest-first. CancelOrder indexes into that list.
	VerifyCancelOTP(email, otp string) ([]models.Order, error)
	CancelOrder(ctx context.Context, email string, index int) error

	SendDeliveredMail(ctx context.Context, email, name string) error
	SendReviewMail(email, name string) error
	SendOutForDeliveryMail(email, name string) error
}

// WaterLifecycleService is the production LifecycleService
type WaterLifecycleService struct {
	otp    OTPService
	email  EmailService
	ledger LedgerService
}

var lifecycleServiceInstance LifecycleService

// InitLifecycleService wires the lifecycle service with its collaborators
func InitLifecycleService(otp OTPService, email EmailService, ledger LedgerService) LifecycleService {
	lifecycleServiceInstance = &WaterLifecycleService{
		otp:    otp,
		email:  email,
		ledger: ledger,
	}
	return lifecycleServiceInstance
}

// GetLifecycleService returns the initialized lifecycle service instance
func GetLifecycleService() LifecycleService {
	return lifecycleServiceInstance
}

// SetLifecycleService sets the lifecycle service instance (primarily for testing)
func SetLifecycleService(s LifecycleService) {
	lifecycleServiceInstance = s
}

// SendOrderOTP issues an order-placement OTP and mails it to the customer
func (s *WaterLifecycleService) SendOrderOTP(email, name string) error {
	code, err := s.otp.Issue(email, OTPPurposeOrder, OrderOTPDigits, OrderOTPTTL)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Customer"
	}
	return s.email.Send(email, subjectOrderOTP, orderOTPBody(name, code))
}

// PlaceOrder verifies the order OTP and creates the order everywhere:
// database first, then ledger row (appended and immediately confirmed),
// then the admin and customer mails.
func (s *WaterLifecycleService) PlaceOrder(ctx context.Context, in PlaceOrderInput) error {
	if err := s.otp.Verify(in.Email, OTPPurposeOrder, in.OTP); err != nil {
		return err
	}

	db := config.GetDB()
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		customer, err := findOrCreateCustomer(tx, in.Email, in.Name, in.Mobile)
		if err != nil {
			return err
		}

		now := time.Now()
		order = models.Order{
			OrderID:       models.NewOrderID(now),
			Items:         in.Items,
			TotalPrice:    in.TotalPrice,
			Delivery:      in.Delivery,
			Address:       in.Address,
			PaymentMethod: in.PaymentMethod,
			Date:          now,
			Status:        models.StatusActive,
			Delivered:     false,
			CustomerID:    customer.ID,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	// Mirror to the ledger: append the row, then confirm it right away.
	// Two sequential remote calls; between them the row is briefly
	// visible as unconfirmed.
	if err := s.ledger.AppendRow(ctx, LedgerRow{
		Name:          in.Name,
		Email:         in.Email,
		Mobile:        in.Mobile,
		Address:       in.Address,
		TotalPrice:    in.TotalPrice,
		PaymentMethod: in.PaymentMethod,
	}); err != nil {
		return err
	}
	if err := s.ledger.ConfirmRow(ctx, in.Email); err != nil {
		return err
	}

	if admin := config.GetConfig().AdminEmail; admin != "" {
		dump, _ := json.MarshalIndent(in, "", "  ")
		if err := s.email.Send(admin, subjectAdminNewOrder, adminNewOrderBody(string(dump))); err != nil {
			return err
		}
	}

	name := in.Name
	if name == "" {
		name = "Customer"
	}
	return s.email.Send(in.Email, subjectOrderConfirmed, orderConfirmedBody(name, in.TotalPrice))
}

// SendDeliveryOTP issues a delivery-confirmation OTP and mails it
func (s *WaterLifecycleService) SendDeliveryOTP(email, name string) error {
	code, err := s.otp.Issue(email, OTPPurposeDelivery, DeliveryOTPDigits, DeliveryOTPTTL)
	if err != nil {
		return err
	}
	return s.email.Send(email, subjectDeliveryOTP, deliveryOTPBody(name, code))
}

// NotifyDeliveryStart tells the admin the delivery person has arrived,
// then issues and mails a delivery OTP to the customer
func (s *WaterLifecycleService) NotifyDeliveryStart(ctx context.Context, email, name string) error {
	if admin := config.GetConfig().AdminEmail; admin != "" {
		if err := s.email.Send(admin, subjectAdminDelivery, adminDeliveryStartBody(name, email)); err != nil {
			return err
		}
	}
	return s.SendDeliveryOTP(email, name)
}

// ConfirmDelivery verifies the delivery OTP, marks the order delivered in
// the ledger, then flips the most recent pending order in the database
func (s *WaterLifecycleService) ConfirmDelivery(ctx context.Context, email, otp, name string) error {
	if err := s.otp.Verify(email, OTPPurposeDelivery, otp); err != nil {
		return err
	}

	if err := s.SendDeliveredMail(ctx, email, name); err != nil {
		return err
	}

	return s.markLatestPendingDelivered(email)
}

// SendDeliveredMail confirms the ledger row, sends the delivered mail,
// then marks the row delivered. Ledger only — the OTP-verified path in
// ConfirmDelivery is what updates the database.
func (s *WaterLifecycleService) SendDeliveredMail(ctx context.Context, email, name string) error {
	if err := s.ledger.ConfirmRow(ctx, email); err != nil {
		return err
	}
	if err := s.email.Send(email, subjectDelivered, deliveredBody(name)); err != nil {
		return err
	}
	return s.ledger.MarkDelivered(ctx, email)
}

// SendCancelOTP issues a cancellation OTP and mails it
func (s *WaterLifecycleService) SendCancelOTP(email string) error {
	code, err := s.otp.Issue(email, OTPPurposeCancel, CancelOTPDigits, CancelOTPTTL)
	if err != nil {
		return err
	}
	return s.email.Send(email, subjectCancelOTP, cancelOTPBody(code))
}

// VerifyCancelOTP consumes the cancel OTP and lists pending orders
// newest-first. An unknown email yields an empty list, not an error.
func (s *WaterLifecycleService) VerifyCancelOTP(email, otp string) ([]models.Order, error) {
	if err := s.otp.Verify(email, OTPPurposeCancel, otp); err != nil {
		return nil, err
	}
	return PendingOrders(email)
}

// CancelOrder cancels the order at the given index of the customer's
// pending list (newest first, the same order VerifyCancelOTP returned)
func (s *WaterLifecycleService) CancelOrder(ctx context.Context, email string, index int) error {
	db := config.GetDB()

	var customer models.Customer
	if err := db.Where("email = ?", email).First(&customer).Error; err != nil {
		return ErrOrderNotFound
	}

	pending, err := PendingOrders(email)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(pending) {
		return ErrOrderNotFound
	}
	order := pending[index]

	now := time.Now()
	err = db.Model(&models.Order{}).
		Where("order_id = ?", order.OrderID).
		Updates(map[string]interface{}{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := s.ledger.MarkCancelled(ctx, email); err != nil {
		return err
	}

	name := customer.Name
	if name == "" {
		name = "Customer"
	}
	return s.email.Send(email, subjectCancelled, cancelledBody(name))
}

// SendReviewMail asks the customer for feedback; replies go to the admin
func (s *WaterLifecycleService) SendReviewMail(email, name string) error {
	admin := config.GetConfig().AdminEmail
	return s.email.SendWithReplyTo(email, subjectReview, reviewBody(name), admin)
}

// SendOutForDeliveryMail tells the customer the order is on its way
func (s *WaterLifecycleService) SendOutForDeliveryMail(email, name string) error {
	return s.email.Send(email, subjectOutForDelivery, outForDeliveryBody(name))
}

// markLatestPendingDelivered flips the most recent pending order to
// DELIVERED. Nothing pending is not an error: the ledger mail already
// went out and the local store simply has nothing left to record.
func (s *WaterLifecycleService) markLatestPendingDelivered(email string) error {
	pending, err := PendingOrders(email)
	if err != nil || len(pending) == 0 {
		return err
	}

	return config.GetDB().Model(&models.Order{}).
		Where("order_id = ?", pending[0].OrderID).
		Updates(map[string]interface{}{
			"delivered": true,
			"status":    models.StatusDelivered,
		}).Error
}

// PendingOrders returns a customer's ACTIVE, undelivered orders sorted by
// creation date descending. An unknown email yields an empty list.
func PendingOrders(email string) ([]models.Order, error) {
	db := config.GetDB()

	var customer models.Customer
	if err := db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Order{}, nil
		}
		return nil, err
	}

	var orders []models.Order
	err := db.Where("customer_id = ? AND status = ? AND delivered = ?",
		customer.ID, models.StatusActive, false).
		Order("date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// findOrCreateCustomer looks up a customer by email, creating one on the
// first order from a new address
func findOrCreateCustomer(tx *gorm.DB, email, name, mobile string) (*models.Customer, error) {
	var customer models.Customer
	err := tx.Where("email = ?", email).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		Email:  email,
		Name:   name,
		Mobile: mobile,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
